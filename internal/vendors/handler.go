package vendors

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
	"retail-nso/admin-portal/admin-portal-backend/internal/upstream"
)

// Handler exposes the vendor lookup and assignment routes.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates the vendors handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers vendor routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/vendors", h.list)
	r.POST("/nso/outlets/:id/vendor", h.assign)
}

func (h *Handler) list(c *gin.Context) {
	options, err := h.service.List(c.Request.Context(), session.FromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

type assignRequest struct {
	VendorID int `json:"vendorId"`
}

func (h *Handler) assign(c *gin.Context) {
	outletID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid outlet id"})
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor payload"})
		return
	}

	if err := h.service.Assign(c.Request.Context(), session.FromContext(c), outletID, req.VendorID); err != nil {
		if errors.Is(err, ErrVendorRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a vendor"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor assigned"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid. Please log in again."})
	case errors.Is(err, upstream.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		h.logger.Error("Vendor request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Message(err)})
	}
}
