package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
	"retail-nso/admin-portal/admin-portal-backend/internal/session"
)

// OverdueScanner periodically walks the pending outlets and raises an urgent
// notification the first time each one crosses into the overdue tier.
type OverdueScanner struct {
	svc     *Service
	outlets *outlets.Service
	sess    *session.Session
	cron    *cron.Cron
	logger  *zap.Logger

	mu       sync.Mutex
	notified map[int]bool
}

// NewOverdueScanner creates the scanner. serviceToken authenticates the
// background fetches; with an empty token the scanner is inert.
func NewOverdueScanner(svc *Service, outletSvc *outlets.Service, serviceToken string, logger *zap.Logger) *OverdueScanner {
	return &OverdueScanner{
		svc:      svc,
		outlets:  outletSvc,
		sess:     &session.Session{AccessToken: serviceToken},
		cron:     cron.New(),
		logger:   logger,
		notified: make(map[int]bool),
	}
}

// Start schedules the scan every 15 minutes.
func (s *OverdueScanner) Start() {
	if !s.sess.Authenticated() {
		s.logger.Info("Overdue scanner disabled, no service token configured")
		return
	}
	if _, err := s.cron.AddFunc("@every 15m", s.Scan); err != nil {
		s.logger.Error("Failed to schedule overdue scan", zap.Error(err))
		return
	}
	s.cron.Start()
}

// Stop halts the schedule.
func (s *OverdueScanner) Stop() {
	s.cron.Stop()
}

// Scan runs one pass. Exported so a deploy hook can trigger it on demand.
func (s *OverdueScanner) Scan() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	view, err := s.outlets.ListWithDashboard(ctx, s.sess)
	if err != nil {
		s.logger.Warn("Overdue scan fetch failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range view.Urgent {
		if s.notified[o.OutletID] {
			continue
		}
		s.notified[o.OutletID] = true
		s.svc.OutletOverdue(o.OutletName, o.DaysPendingForLOIApproval)
	}
}
