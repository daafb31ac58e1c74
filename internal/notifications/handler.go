package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the websocket feed and its HTTP backlog.
type Handler struct {
	hub     *Hub
	service *Service
	logger  *zap.Logger
}

// NewHandler creates the notifications handler
func NewHandler(hub *Hub, service *Service, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, service: service, logger: logger}
}

// RegisterRoutes registers notification routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws/notifications", h.subscribe)
	r.GET("/notifications", h.feed)
}

func (h *Handler) subscribe(c *gin.Context) {
	if err := h.hub.HandleConnection(c.Writer, c.Request); err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
	}
}

func (h *Handler) feed(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Feed())
}
