package outlets

import (
	"strings"
	"time"
)

// Outlet lifecycle statuses as the outlet-management API reports them.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Rent models an outlet can be signed under.
const (
	RentModelFixed             = "fixedRent"
	RentModelRevShare          = "revShare"
	RentModelFixedWithRevShare = "fixedRentWithRevShare"
)

// Outlet is one retail location undergoing onboarding, as returned by
// GET /nso/outlets and GET /nso/outlets/{id}.
type Outlet struct {
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
	Stages          []Stage     `json:"stages"`
}

// Indicator is the compact per-stage progress dot shown on outlet cards.
type Indicator struct {
	StageName string `json:"stageName"`
	Completed bool   `json:"completed"`
}

// Stage is one named phase of the onboarding pipeline.
type Stage struct {
	StageID              int      `json:"stageId"`
	StageName            string   `json:"stageName"`
	StartDate            string   `json:"startDate"`
	EndDate              string   `json:"endDate"`
	CompletedTasks       int      `json:"completedTasks"`
	TotalTasks           int      `json:"totalTasks"`
	CompletionPercentage *float64 `json:"completionPercentage"`
	IsCompleted          bool     `json:"isCompleted"`
	Tasks                []Task   `json:"tasks"`
}

// Completion returns the stage's completion percentage, deriving it from the
// task counts when the backend does not supply it directly.
func (s *Stage) Completion() float64 {
	if s.CompletionPercentage != nil {
		return *s.CompletionPercentage
	}
	if s.TotalTasks > 0 {
		return float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
	}
	return 0
}

// Task is an atomic unit of work within a stage.
type Task struct {
	TaskID       int           `json:"taskId"`
	Title        string        `json:"title"`
	Status       string        `json:"status"`
	ActualDate   string        `json:"actualDate"`
	Owner        string        `json:"owner"`
	Document     *Document     `json:"document"`
	Dependencies *Dependencies `json:"dependencies"`
}

// TaskStatusCompleted is the only task status the portal reasons about;
// anything else counts as open.
const TaskStatusCompleted = "completed"

// Completed reports whether the task is done.
func (t *Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}

// CanPreview reports whether the task has a previewable document.
func (t *Task) CanPreview() bool {
	return t.Document != nil && t.Document.FileURL != ""
}

// Blocked reports whether the task is held up by unmet dependencies. A
// completed task is never blocked, whatever the backend flag says.
func (t *Task) Blocked() bool {
	return t.Dependencies != nil && t.Dependencies.IsBlocked && !t.Completed()
}

// Document is a file attached to a task.
type Document struct {
	FileID  string `json:"fileId"`
	FileURL string `json:"fileUrl"`
}

// Dependencies splits a task's prerequisites into pending and satisfied.
type Dependencies struct {
	IsBlocked bool            `json:"isBlocked"`
	Pending   []DependencyRef `json:"pending"`
	Satisfied []DependencyRef `json:"satisfied"`
}

// DependencyRef describes one prerequisite task.
type DependencyRef struct {
	Title       string `json:"title"`
	Department  string `json:"department"`
	IsCompleted bool   `json:"isCompleted"`
}

// Dashboard is the aggregate KPI payload from GET /outlets/nso/dashboard.
type Dashboard struct {
	Stats              DashboardStats `json:"stats"`
	ImmediateApprovals []Outlet       `json:"immediateApprovals"`
}

// DashboardStats are the KPI counters across the top of the approvals view.
type DashboardStats struct {
	PendingApprovals int `json:"pendingApprovals"`
	Urgent           int `json:"urgent"`
	ApprovedToday    int `json:"approvedToday"`
	RejectedToday    int `json:"rejectedToday"`
	LiveOutlets      int `json:"liveOutlets"`
}

// DecisionAction is the reviewer's choice on a draft outlet.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// Decision is an in-flight approve/reject action. It exists only in
// transient workflow state and is destroyed on submit or cancel.
type Decision struct {
	OutletID   int
	OutletName string
	Action     DecisionAction
	Remarks    string
}

// HasRemarks reports whether the trimmed remarks are non-empty.
func (d *Decision) HasRemarks() bool {
	return strings.TrimSpace(d.Remarks) != ""
}

// daysBetween counts whole days from a creation timestamp to now.
func daysBetween(createdAt string, now time.Time) int {
	created, err := parseUpstreamDate(createdAt)
	if err != nil {
		return 0
	}
	days := int(now.Sub(created).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// parseUpstreamDate accepts the two timestamp shapes the API emits.
func parseUpstreamDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// DaysPending is the age of a draft outlet's submission in whole days.
// Non-draft outlets are no longer waiting and report zero.
func (o *Outlet) DaysPending(now time.Time) int {
	if o.OutletStatus != StatusDraft {
		return 0
	}
	return daysBetween(o.CreatedAt, now)
}
