package notifications

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
)

const feedLimit = 50

// Service keeps the recent notification feed and pushes new entries to the
// websocket hub. It implements the outlet workflow's Notifier contract.
type Service struct {
	hub    *Hub
	logger *zap.Logger

	mu   sync.Mutex
	feed []Notification
}

// NewService creates the notification service
func NewService(hub *Hub, logger *zap.Logger) *Service {
	return &Service{hub: hub, logger: logger}
}

// Publish records a notification and broadcasts it.
func (s *Service) Publish(n Notification) {
	s.mu.Lock()
	s.feed = append([]Notification{n}, s.feed...)
	if len(s.feed) > feedLimit {
		s.feed = s.feed[:feedLimit]
	}
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(n)
	}
}

// Feed returns the recent notifications, newest first.
func (s *Service) Feed() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.feed))
	copy(out, s.feed)
	return out
}

// DecisionSucceeded announces a recorded approve/reject decision.
func (s *Service) DecisionSucceeded(d *outlets.Decision) {
	if d.Action == outlets.ActionApprove {
		s.Publish(New(TypeSuccess,
			fmt.Sprintf("%s approved", d.OutletName),
			"Outlet approved successfully."))
		return
	}
	s.Publish(New(TypeSuccess,
		fmt.Sprintf("%s rejected", d.OutletName),
		"Outlet rejected and logged in history."))
}

// DecisionFailed announces a failed submission with the upstream's message.
func (s *Service) DecisionFailed(d *outlets.Decision, message string) {
	s.Publish(New(TypeError,
		fmt.Sprintf("Decision for %s failed", d.OutletName),
		message))
}

// OutletOverdue announces an outlet crossing into the overdue tier.
func (s *Service) OutletOverdue(name string, days int) {
	s.Publish(New(TypeUrgent,
		fmt.Sprintf("%s is overdue", name),
		fmt.Sprintf("%d days pending — immediate review required.", days)))
}
