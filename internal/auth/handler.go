package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
	"retail-nso/admin-portal/admin-portal-backend/internal/upstream"
)

// Handler exposes the login/logout routes.
type Handler struct {
	service *Service
	store   *session.CookieStore
	logger  *zap.Logger
}

// NewHandler creates the auth handler
func NewHandler(service *Service, store *session.CookieStore, logger *zap.Logger) *Handler {
	return &Handler{service: service, store: store, logger: logger}
}

// RegisterRoutes registers auth routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}

	sess, err := h.service.Login(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill the fields"})
			return
		}
		h.logger.Warn("Login failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": upstream.Message(err)})
		return
	}

	// All five session cookies are written together.
	h.store.Save(c, sess)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successful!",
		"name":    sess.Name,
		"empId":   sess.EmpID,
		"userId":  sess.UserID,
	})
}

func (h *Handler) logout(c *gin.Context) {
	h.store.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
