package outlets

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/gantt"
	"retail-nso/admin-portal/admin-portal-backend/internal/session"
	"retail-nso/admin-portal/admin-portal-backend/internal/upstream"
)

// Previewer resolves a task document into a preview URL.
type Previewer interface {
	PreviewURL(ctx context.Context, task *Task) (string, error)
}

// Handler handles HTTP requests for the outlet approval screens
type Handler struct {
	service   *Service
	previewer Previewer
	logger    *zap.Logger
}

// NewHandler creates the outlets handler
func NewHandler(service *Service, previewer Previewer, logger *zap.Logger) *Handler {
	return &Handler{service: service, previewer: previewer, logger: logger}
}

// RegisterRoutes registers outlet routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	nso := r.Group("/nso/outlets")
	{
		nso.GET("", h.list)
		nso.GET("/:id", h.detail)
		nso.GET("/:id/timeline.svg", h.timeline)
		nso.GET("/:id/stages/:stage", h.stagePanel)
		nso.GET("/:id/documents/:taskId/preview", h.preview)
		nso.PATCH("/:id/approval", h.approve)
		nso.PATCH("/:id/reject", h.reject)
	}
}

// list handles GET /nso/outlets with optional search and tab filters.
func (h *Handler) list(c *gin.Context) {
	sess := session.FromContext(c)

	view, err := h.service.ListWithDashboard(c.Request.Context(), sess)
	if err != nil {
		h.respondError(c, err)
		return
	}

	outlets := FilterOutlets(view.Outlets, c.Query("search"))
	if tab := c.Query("tab"); tab != "" {
		outlets = filterTab(outlets, tab)
	}

	c.JSON(http.StatusOK, ApprovalView{
		Outlets:   outlets,
		Urgent:    view.Urgent,
		Tabs:      view.Tabs,
		Dashboard: view.Dashboard,
	})
}

func filterTab(views []OutletView, tab string) []OutletView {
	var want string
	switch tab {
	case "pending":
		want = "Pending"
	case "approved":
		want = "Approved"
	case "rejected":
		want = "Rejected"
	default:
		return views
	}
	out := make([]OutletView, 0, len(views))
	for _, v := range views {
		if v.OutletStatus == want {
			out = append(out, v)
		}
	}
	return out
}

// detail handles GET /nso/outlets/:id
func (h *Handler) detail(c *gin.Context) {
	id, ok := h.outletID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), session.FromContext(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// timeline handles GET /nso/outlets/:id/timeline.svg
func (h *Handler) timeline(c *gin.Context) {
	id, ok := h.outletID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), session.FromContext(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	chartStart, ok := gantt.EarliestStart(detail.Timeline)
	if !ok {
		chartStart = time.Now().Truncate(24 * time.Hour)
	}

	opts := gantt.Options{ContainerWidth: 1000}
	if width, err := strconv.ParseFloat(c.Query("width"), 64); err == nil && width > 0 {
		opts.ContainerWidth = width
	}
	if days, err := strconv.Atoi(c.Query("days")); err == nil && days > 0 {
		opts.Days = days
	}

	layout := gantt.NewLayout(detail.Timeline, chartStart, opts)
	c.Data(http.StatusOK, "image/svg+xml", gantt.RenderSVG(layout))
}

// stagePanel handles GET /nso/outlets/:id/stages/:stage
func (h *Handler) stagePanel(c *gin.Context) {
	id, ok := h.outletID(c)
	if !ok {
		return
	}

	panel, err := h.service.GetStagePanel(c.Request.Context(), session.FromContext(c), id, c.Param("stage"))
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, panel)
}

// preview handles GET /nso/outlets/:id/documents/:taskId/preview
func (h *Handler) preview(c *gin.Context) {
	id, ok := h.outletID(c)
	if !ok {
		return
	}
	taskID, err := strconv.Atoi(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), session.FromContext(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	task := findTask(detail.Raw().Stages, taskID)
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	url, err := h.previewer.PreviewURL(c.Request.Context(), task)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Document not available for preview"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func findTask(stages []Stage, taskID int) *Task {
	for i := range stages {
		for j := range stages[i].Tasks {
			if stages[i].Tasks[j].TaskID == taskID {
				return &stages[i].Tasks[j]
			}
		}
	}
	return nil
}

type decisionRequest struct {
	Remarks string `json:"remarks"`
	// Accepted as an alias so clients can post the upstream field name.
	RejectionReason string `json:"rejectionReason"`
}

func (r *decisionRequest) remarks() string {
	if r.Remarks != "" {
		return r.Remarks
	}
	return r.RejectionReason
}

// approve handles PATCH /nso/outlets/:id/approval
func (h *Handler) approve(c *gin.Context) {
	h.decide(c, ActionApprove)
}

// reject handles PATCH /nso/outlets/:id/reject
func (h *Handler) reject(c *gin.Context) {
	h.decide(c, ActionReject)
}

func (h *Handler) decide(c *gin.Context, action DecisionAction) {
	id, ok := h.outletID(c)
	if !ok {
		return
	}

	// An absent body is fine (approve sends none); a present one must parse,
	// including chunked requests that carry no Content-Length.
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decision payload"})
		return
	}

	err := h.service.Decide(c.Request.Context(), session.FromContext(c), id, action, req.remarks())
	if err != nil {
		h.respondError(c, err)
		return
	}

	message := "Outlet approved successfully."
	if action == ActionReject {
		message = "Outlet rejected!"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *Handler) outletID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid outlet id"})
		return 0, false
	}
	return id, true
}

// respondError maps workflow and upstream errors onto the portal's error
// taxonomy: validation 400, session 401, missing 404, in-flight 409,
// everything else a 502 with the extracted upstream message.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRemarksRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a reason."})
	case errors.Is(err, ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A submission is already in progress."})
	case errors.Is(err, ErrAlreadyDecided):
		c.JSON(http.StatusConflict, gin.H{"error": "Outlet has already been decided."})
	case errors.Is(err, upstream.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid. Please log in again."})
	case errors.Is(err, upstream.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Outlet not found"})
	default:
		h.logger.Error("Outlet request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Message(err)})
	}
}
