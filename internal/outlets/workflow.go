package outlets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
	"retail-nso/admin-portal/admin-portal-backend/pkg/workflows"
)

// WorkflowState is the decision workflow's position.
type WorkflowState string

const (
	StateIdle        WorkflowState = "idle"
	StateConfirmOpen WorkflowState = "confirm-open"
	StateSubmitting  WorkflowState = "submitting"
)

// Workflow errors surfaced to the reviewer before any network call.
var (
	ErrNoDecision      = errors.New("workflow: no decision open")
	ErrRemarksRequired = errors.New("workflow: rejection requires remarks")
	ErrSubmitInFlight  = errors.New("workflow: a submission is already in flight")
	ErrAlreadyDecided  = errors.New("workflow: outlet is already in a terminal state")
)

// Submitter issues the single mutation request for a confirmed decision.
type Submitter interface {
	SubmitDecision(ctx context.Context, sess *session.Session, d *Decision) error
}

// Notifier receives the workflow's user-facing outcomes.
type Notifier interface {
	DecisionSucceeded(d *Decision)
	DecisionFailed(d *Decision, message string)
}

// Controller drives one approve/reject flow:
// Idle -> ConfirmOpen -> Submitting -> Idle on success. A failed submission
// returns to ConfirmOpen with remarks intact so the reviewer can retry
// without retyping, and Submitting refuses a second confirm outright.
type Controller struct {
	mu        sync.Mutex
	state     WorkflowState
	decision  *Decision
	lifecycle *workflows.StateMachine
	submitter Submitter
	notifier  Notifier
	onRefresh func()
	logger    *zap.Logger
}

// NewController creates a decision workflow controller. onRefresh is invoked
// after a successful submission so the outlet list and dashboard aggregates
// get re-fetched; the workflow never mutates outlet state locally.
func NewController(submitter Submitter, notifier Notifier, onRefresh func(), logger *zap.Logger) *Controller {
	return &Controller{
		state:     StateIdle,
		lifecycle: workflows.NewOutletLifecycle(),
		submitter: submitter,
		notifier:  notifier,
		onRefresh: onRefresh,
		logger:    logger,
	}
}

// State returns the current workflow state.
func (c *Controller) State() WorkflowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Decision returns a copy of the open decision, if any.
func (c *Controller) Decision() *Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.decision == nil {
		return nil
	}
	d := *c.decision
	return &d
}

// Open starts a decision flow for an outlet. Opening while another decision
// is pending replaces it and discards its remarks; decisions are not queued.
// Opening is refused while a submission is in flight.
func (c *Controller) Open(outlet *Outlet, action DecisionAction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	if c.lifecycle.IsTerminal(outlet.OutletStatus) {
		return ErrAlreadyDecided
	}

	c.decision = &Decision{
		OutletID:   outlet.OutletID,
		OutletName: outlet.OutletName,
		Action:     action,
	}
	c.state = StateConfirmOpen
	return nil
}

// UpdateRemarks replaces the remarks of the open decision.
func (c *Controller) UpdateRemarks(remarks string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfirmOpen || c.decision == nil {
		return ErrNoDecision
	}
	c.decision.Remarks = remarks
	return nil
}

// Cancel discards the open decision.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return
	}
	c.decision = nil
	c.state = StateIdle
}

// Confirm validates and submits the open decision. A reject with blank
// remarks is refused before any network call and the flow stays open.
// Exactly one mutation request is issued per confirmed decision.
func (c *Controller) Confirm(ctx context.Context, sess *session.Session) error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case StateIdle:
		c.mu.Unlock()
		return ErrNoDecision
	}

	d := *c.decision
	if d.Action == ActionReject && !d.HasRemarks() {
		c.mu.Unlock()
		return ErrRemarksRequired
	}

	c.state = StateSubmitting
	c.mu.Unlock()

	err := c.submitter.SubmitDecision(ctx, sess, &d)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn("Decision submission failed",
			zap.Int("outlet_id", d.OutletID),
			zap.String("action", string(d.Action)),
			zap.Error(err))
		// Keep the confirmation open with remarks intact for a retry.
		c.state = StateConfirmOpen
		if c.notifier != nil {
			c.notifier.DecisionFailed(&d, err.Error())
		}
		return fmt.Errorf("submit decision: %w", err)
	}

	c.decision = nil
	c.state = StateIdle

	c.logger.Info("Outlet decision recorded",
		zap.Int("outlet_id", d.OutletID),
		zap.String("action", string(d.Action)))

	if c.notifier != nil {
		c.notifier.DecisionSucceeded(&d)
	}
	if c.onRefresh != nil {
		c.onRefresh()
	}
	return nil
}

// ValidateRemarks is the shared pre-network check used by the HTTP surface:
// a reject needs non-blank remarks, an approve ignores them.
func ValidateRemarks(action DecisionAction, remarks string) error {
	if action == ActionReject && strings.TrimSpace(remarks) == "" {
		return ErrRemarksRequired
	}
	return nil
}
