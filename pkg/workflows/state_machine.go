package workflows

// StateMachine enforces outlet lifecycle transitions
type StateMachine struct {
	allowedTransitions map[string][]string
}

// NewOutletLifecycle creates the state machine for the outlet approval
// lifecycle. Approved and rejected are terminal; there is no re-review.
func NewOutletLifecycle() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			"draft":    {"approved", "rejected"},
			"approved": {},
			"rejected": {},
		},
	}
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *StateMachine) GetAllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}

// IsTerminal reports whether a status admits no further transitions.
func (sm *StateMachine) IsTerminal(status string) bool {
	allowed, exists := sm.allowedTransitions[status]
	return exists && len(allowed) == 0
}
