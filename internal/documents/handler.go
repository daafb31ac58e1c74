package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
	"retail-nso/admin-portal/admin-portal-backend/internal/session"
	"retail-nso/admin-portal/admin-portal-backend/internal/upstream"
)

// Handler serves the legal-document quick previews on the outlet detail
// screen.
type Handler struct {
	outlets *outlets.Service
	logger  *zap.Logger
}

// NewHandler creates the documents handler
func NewHandler(outletSvc *outlets.Service, logger *zap.Logger) *Handler {
	return &Handler{outlets: outletSvc, logger: logger}
}

// RegisterRoutes registers document routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/nso/outlets/:id/legal-documents", h.legalDocuments)
}

// legalDocuments handles GET /nso/outlets/:id/legal-documents
func (h *Handler) legalDocuments(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid outlet id"})
		return
	}

	detail, err := h.outlets.GetDetail(c.Request.Context(), session.FromContext(c), id)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid. Please log in again."})
		case errors.Is(err, upstream.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Outlet not found"})
		default:
			h.logger.Error("Failed to fetch outlet for legal documents", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Message(err)})
		}
		return
	}

	docs := LegalDocuments(outlets.FindStage(detail.Raw().Stages, "Legal"))
	if docs == nil {
		docs = []outlets.Task{}
	}
	c.JSON(http.StatusOK, docs)
}
