package outlets

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/gantt"
	"retail-nso/admin-portal/admin-portal-backend/internal/session"
)

// Upstream is the slice of the outlet-management API the service consumes.
type Upstream interface {
	Get(ctx context.Context, sess *session.Session, path string, out any) (int, error)
	Patch(ctx context.Context, sess *session.Session, path string, body, out any) (int, error)
}

// Service provides the portal's outlet operations: the combined
// list+dashboard view, outlet detail with the normalized pipeline and
// timeline, and the decision workflow.
type Service struct {
	upstream Upstream
	notifier Notifier
	logger   *zap.Logger

	// Per-outlet decision controllers so Submitting is authoritative across
	// concurrent requests for the same outlet.
	ctrlMu      sync.Mutex
	controllers map[int]*Controller

	// Short-lived cache of the combined view, invalidated on every recorded
	// decision so the next fetch reflects the outlet's new status.
	cacheMu    sync.Mutex
	cached     *ApprovalView
	cachedAt   time.Time
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewService creates the outlet service
func NewService(upstream Upstream, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		upstream:    upstream,
		notifier:    notifier,
		logger:      logger,
		controllers: make(map[int]*Controller),
		cacheTTL:    30 * time.Second,
		now:         time.Now,
	}
}

// OutletView is an outlet as the portal presents it.
type OutletView struct {
	OutletID        int         `json:"outletId"`
	OutletName      string      `json:"outletName"`
	OutletStatus    string      `json:"outletStatus"`
	Address         string      `json:"address"`
	City            string      `json:"city"`
	AreaManager     string      `json:"areaManager"`
	RentModel       string      `json:"rentModel"`
	FixedRentAmount float64     `json:"fixedRentAmount"`
	RevSharePercent float64     `json:"revSharePercent"`
	SDAmount        float64     `json:"sdAmount"`
	ExpectedDate    string      `json:"expectedDate"`
	ActualDate      string      `json:"actualDate"`
	CreatedAt       string      `json:"createdAt"`
	ApprovedDate    string      `json:"approvedDate"`
	RejectionReason string      `json:"rejectionReason"`
	OverallProgress float64     `json:"overallProgress"`
	LOIDocument     string      `json:"loiDocument"`
	StageIndicators []Indicator `json:"stageIndicators"`

	DaysPendingForLOIApproval int     `json:"daysPendingForLOIApproval"`
	Urgency                   Urgency `json:"urgency"`
}

// TabCounts drive the pending/approved/rejected tab badges.
type TabCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ApprovalView is the combined payload for the approvals screen.
type ApprovalView struct {
	Outlets   []OutletView `json:"outlets"`
	Urgent    []OutletView `json:"urgent"`
	Tabs      TabCounts    `json:"tabs"`
	Dashboard *Dashboard   `json:"dashboard"`
}

// ListWithDashboard fetches the outlet list and the dashboard aggregates
// concurrently; both must resolve before the combined view is returned.
func (s *Service) ListWithDashboard(ctx context.Context, sess *session.Session) (*ApprovalView, error) {
	s.cacheMu.Lock()
	if s.cached != nil && s.now().Sub(s.cachedAt) < s.cacheTTL {
		view := s.cached
		s.cacheMu.Unlock()
		return view, nil
	}
	s.cacheMu.Unlock()

	var (
		wg            sync.WaitGroup
		rawOutlets    []Outlet
		dashboard     Dashboard
		outletsStatus int
		outletsErr    error
		dashboardErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		outletsStatus, outletsErr = s.upstream.Get(ctx, sess, "/nso/outlets", &rawOutlets)
	}()
	go func() {
		defer wg.Done()
		_, dashboardErr = s.upstream.Get(ctx, sess, "/outlets/nso/dashboard", &dashboard)
	}()
	wg.Wait()

	if outletsErr != nil {
		return nil, fmt.Errorf("fetch outlets: %w", outletsErr)
	}
	if dashboardErr != nil {
		return nil, fmt.Errorf("fetch dashboard: %w", dashboardErr)
	}
	// The list endpoint acknowledges with 201, not 200.
	if outletsStatus != http.StatusCreated && outletsStatus != http.StatusOK {
		return nil, fmt.Errorf("fetch outlets: unexpected status %d", outletsStatus)
	}

	view := s.buildApprovalView(rawOutlets, &dashboard)

	s.cacheMu.Lock()
	s.cached = view
	s.cachedAt = s.now()
	s.cacheMu.Unlock()

	return view, nil
}

func (s *Service) buildApprovalView(rawOutlets []Outlet, dashboard *Dashboard) *ApprovalView {
	now := s.now()
	view := &ApprovalView{
		Outlets:   make([]OutletView, 0, len(rawOutlets)),
		Dashboard: dashboard,
	}

	for i := range rawOutlets {
		ov := s.mapOutlet(&rawOutlets[i], now)
		view.Outlets = append(view.Outlets, ov)

		switch ov.OutletStatus {
		case "Pending":
			view.Tabs.Pending++
			if ov.Urgency.Tier == UrgencyOverdue {
				view.Urgent = append(view.Urgent, ov)
			}
		case "Approved":
			view.Tabs.Approved++
		case "Rejected":
			view.Tabs.Rejected++
		}
	}
	return view
}

func (s *Service) mapOutlet(o *Outlet, now time.Time) OutletView {
	days := o.DaysPending(now)
	return OutletView{
		OutletID:        o.OutletID,
		OutletName:      o.OutletName,
		OutletStatus:    DisplayStatus(o.OutletStatus),
		Address:         o.Address,
		City:            o.City,
		AreaManager:     o.AreaManager,
		RentModel:       o.RentModel,
		FixedRentAmount: o.FixedRentAmount,
		RevSharePercent: o.RevSharePercent,
		SDAmount:        o.SDAmount,
		ExpectedDate:    formatLongDate(o.ExpectedDate),
		ActualDate:      formatLongDate(o.ActualDate),
		CreatedAt:       formatShortDate(o.CreatedAt),
		ApprovedDate:    formatLongDate(o.ApprovedDate),
		RejectionReason: o.RejectionReason,
		OverallProgress: o.OverallProgress,
		LOIDocument:     o.LOIDocument,
		StageIndicators: o.StageIndicators,

		DaysPendingForLOIApproval: days,
		Urgency:                   UrgencyFor(days),
	}
}

// FilterOutlets narrows views by a case-insensitive search over name and
// address, matching the list screen's search box.
func FilterOutlets(views []OutletView, query string) []OutletView {
	q := normalizeQuery(query)
	if q == "" {
		return views
	}
	out := make([]OutletView, 0, len(views))
	for _, v := range views {
		if containsFold(v.OutletName+" "+v.Address, q) {
			out = append(out, v)
		}
	}
	return out
}

// DetailView is the outlet-detail payload: the canonical pipeline, the
// completed/pending stage split for the outlet card, and the timeline tasks
// derived from backend stages.
type DetailView struct {
	Outlet          OutletView     `json:"outlet"`
	Pipeline        []DisplayStage `json:"pipeline"`
	CompletedStages []Stage        `json:"completedStages"`
	PendingStages   []Stage        `json:"pendingStages"`
	Timeline        []gantt.Task   `json:"timeline"`
	raw             *Outlet
}

// Raw exposes the backend outlet for collaborators (export, documents).
func (d *DetailView) Raw() *Outlet {
	return d.raw
}

// GetDetail fetches one outlet and derives its display projections.
func (s *Service) GetDetail(ctx context.Context, sess *session.Session, outletID int) (*DetailView, error) {
	var outlet Outlet
	if _, err := s.upstream.Get(ctx, sess, "/nso/outlets/"+strconv.Itoa(outletID), &outlet); err != nil {
		return nil, fmt.Errorf("fetch outlet %d: %w", outletID, err)
	}

	completed, pending := SplitStages(outlet.Stages)
	return &DetailView{
		Outlet:          s.mapOutlet(&outlet, s.now()),
		Pipeline:        NormalizeStages(outlet.Stages),
		CompletedStages: completed,
		PendingStages:   pending,
		Timeline:        timelineTasks(outlet.Stages),
		raw:             &outlet,
	}, nil
}

// timelineTasks projects backend stages onto gantt tasks. A stage without
// an end date renders as a zero-length bar at its start.
func timelineTasks(stages []Stage) []gantt.Task {
	tasks := make([]gantt.Task, 0, len(stages))
	for i := range stages {
		st := &stages[i]
		start, err := parseUpstreamDate(st.StartDate)
		if err != nil {
			continue
		}
		end := start
		if st.EndDate != "" {
			if parsed, err := parseUpstreamDate(st.EndDate); err == nil {
				end = parsed
			}
		}
		tasks = append(tasks, gantt.Task{
			ID:       strconv.Itoa(st.StageID),
			Name:     st.StageName,
			Start:    start,
			End:      end,
			Progress: st.Completion(),
			Details:  fmt.Sprintf("%d of %d tasks complete", st.CompletedTasks, st.TotalTasks),
		})
	}
	return tasks
}

// StagePanelView backs the per-stage side panel.
type StagePanelView struct {
	StepNumber  int         `json:"stepNumber"`
	Title       string      `json:"title"`
	Status      StageStatus `json:"status"`
	StartedDate string      `json:"startedDate"`
	Steps       []StepView  `json:"steps"`
}

// StepView is one task row inside the side panel.
type StepView struct {
	Label        string        `json:"label"`
	Completed    bool          `json:"completed"`
	Date         string        `json:"date,omitempty"`
	HasFile      bool          `json:"hasFile"`
	IsBlocked    bool          `json:"isBlocked"`
	Dependencies *Dependencies `json:"dependencies,omitempty"`
}

// GetStagePanel builds the side-panel projection for one canonical stage of
// an outlet. A stage the backend has not reached yet yields an empty,
// not-started panel rather than an error.
func (s *Service) GetStagePanel(ctx context.Context, sess *session.Session, outletID int, stageName string) (*StagePanelView, error) {
	stepNumber := 0
	for i, name := range CanonicalStages {
		if name == stageName {
			stepNumber = i + 1
			break
		}
	}
	if stepNumber == 0 {
		return nil, fmt.Errorf("unknown stage %q", stageName)
	}

	detail, err := s.GetDetail(ctx, sess, outletID)
	if err != nil {
		return nil, err
	}

	panel := &StagePanelView{
		StepNumber:  stepNumber,
		Title:       stageName,
		Status:      StageNotStarted,
		StartedDate: "-",
	}

	stage := FindStage(detail.raw.Stages, stageName)
	if stage == nil {
		return panel, nil
	}

	panel.Status = StageStatusFor(stage.Completion())
	if stage.StartDate != "" {
		panel.StartedDate = formatShortDate(stage.StartDate)
	}
	for i := range stage.Tasks {
		t := &stage.Tasks[i]
		panel.Steps = append(panel.Steps, StepView{
			Label:        t.Title,
			Completed:    t.Completed(),
			Date:         formatShortDate(t.ActualDate),
			HasFile:      t.CanPreview(),
			IsBlocked:    t.Blocked(),
			Dependencies: t.Dependencies,
		})
	}
	return panel, nil
}

// controllerFor returns the decision controller for an outlet, creating it
// on first use.
func (s *Service) controllerFor(outletID int) *Controller {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	ctrl, ok := s.controllers[outletID]
	if !ok {
		ctrl = NewController(s, s.notifier, s.invalidateCache, s.logger)
		s.controllers[outletID] = ctrl
	}
	return ctrl
}

// Decide runs the full decision workflow for one outlet: open, capture
// remarks, confirm. The current outlet state is fetched first so terminal
// outlets are refused before any mutation.
func (s *Service) Decide(ctx context.Context, sess *session.Session, outletID int, action DecisionAction, remarks string) error {
	if err := ValidateRemarks(action, remarks); err != nil {
		return err
	}

	detail, err := s.GetDetail(ctx, sess, outletID)
	if err != nil {
		return err
	}

	ctrl := s.controllerFor(outletID)
	if err := ctrl.Open(detail.raw, action); err != nil {
		return err
	}
	if remarks != "" {
		if err := ctrl.UpdateRemarks(remarks); err != nil {
			return err
		}
	}
	return ctrl.Confirm(ctx, sess)
}

// SubmitDecision issues the mutation for a confirmed decision: approve
// sends an empty payload to the approval endpoint, reject sends the
// rejection reason. The upstream acknowledges both with 201.
func (s *Service) SubmitDecision(ctx context.Context, sess *session.Session, d *Decision) error {
	var (
		path    string
		payload any
	)
	switch d.Action {
	case ActionApprove:
		path = fmt.Sprintf("/outlets/%d/approval", d.OutletID)
		payload = map[string]any{}
	case ActionReject:
		path = fmt.Sprintf("/outlets/%d/reject", d.OutletID)
		payload = map[string]string{"rejectionReason": d.Remarks}
	default:
		return fmt.Errorf("unknown decision action %q", d.Action)
	}

	status, err := s.upstream.Patch(ctx, sess, path, payload, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("decision not acknowledged: status %d", status)
	}
	return nil
}

func (s *Service) invalidateCache() {
	s.cacheMu.Lock()
	s.cached = nil
	s.cacheMu.Unlock()
}
