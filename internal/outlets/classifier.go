package outlets

import "fmt"

// StageStatus is the discrete progress label derived from a completion
// percentage.
type StageStatus string

const (
	StageNotStarted StageStatus = "not-started"
	StageInProgress StageStatus = "in-progress"
	StageCompleted  StageStatus = "completed"
)

// StageStatusFor classifies a completion percentage. Total over all inputs:
// anything at or below zero is not started, anything at or above 100 is
// completed.
func StageStatusFor(completion float64) StageStatus {
	switch {
	case completion <= 0:
		return StageNotStarted
	case completion >= 100:
		return StageCompleted
	default:
		return StageInProgress
	}
}

// UrgencyTier classifies how long an outlet has awaited review.
type UrgencyTier string

const (
	UrgencyFresh   UrgencyTier = "fresh"
	UrgencyWarning UrgencyTier = "warning"
	UrgencyOverdue UrgencyTier = "overdue"
)

// Urgency is a tier plus its display label.
type Urgency struct {
	Tier  UrgencyTier `json:"tier"`
	Days  int         `json:"days"`
	Label string      `json:"label"`
}

// UrgencyFor classifies a non-negative pending-day count. Overdue outlets
// are the ones pulled into the urgent-requirements section.
func UrgencyFor(daysPending int) Urgency {
	u := Urgency{Days: daysPending, Label: fmt.Sprintf("%dd pending", daysPending)}
	switch {
	case daysPending < 2:
		u.Tier = UrgencyFresh
	case daysPending <= 3:
		u.Tier = UrgencyWarning
	default:
		u.Tier = UrgencyOverdue
		u.Label = fmt.Sprintf("%dd — Overdue", daysPending)
	}
	return u
}

// DisplayStatus is the single source of truth for mapping lifecycle
// statuses to the labels the portal shows. Unknown statuses pass through
// unchanged rather than guessing.
func DisplayStatus(outletStatus string) string {
	switch outletStatus {
	case StatusDraft:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return outletStatus
	}
}
