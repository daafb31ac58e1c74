package export

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
	"retail-nso/admin-portal/admin-portal-backend/internal/session"
	"retail-nso/admin-portal/admin-portal-backend/internal/upstream"
)

// Handler serves the outlet register download.
type Handler struct {
	service *outlets.Service
	logger  *zap.Logger
}

// NewHandler creates the export handler
func NewHandler(service *outlets.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers export routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/nso/outlets/export", h.exportRegister)
}

// exportRegister handles GET /nso/outlets/export
func (h *Handler) exportRegister(c *gin.Context) {
	view, err := h.service.ListWithDashboard(c.Request.Context(), session.FromContext(c))
	if err != nil {
		h.logger.Error("Failed to fetch outlets for export", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Message(err)})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="outlet-register.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := WriteOutletRegister(c.Writer, view.Outlets); err != nil {
		h.logger.Error("Failed to write outlet register", zap.Error(err))
	}
}
