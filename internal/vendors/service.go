package vendors

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
)

// ErrVendorRequired is returned when an assignment names no vendor.
var ErrVendorRequired = errors.New("vendors: please select a vendor")

// Vendor as the upstream API returns it.
type Vendor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Option is a vendor shaped for the assignment selector.
type Option struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Upstream is the slice of the API the vendor service consumes.
type Upstream interface {
	Get(ctx context.Context, sess *session.Session, path string, out any) (int, error)
	Post(ctx context.Context, sess *session.Session, path string, body, out any) (int, error)
}

// Service provides the vendor lookup and assignment operations.
type Service struct {
	upstream Upstream
	logger   *zap.Logger
}

// NewService creates the vendor service
func NewService(upstream Upstream, logger *zap.Logger) *Service {
	return &Service{upstream: upstream, logger: logger}
}

// List fetches the vendor lookup and maps it to selector options.
func (s *Service) List(ctx context.Context, sess *session.Session) ([]Option, error) {
	var raw []Vendor
	if _, err := s.upstream.Get(ctx, sess, "/vendors", &raw); err != nil {
		return nil, fmt.Errorf("fetch vendors: %w", err)
	}

	options := make([]Option, 0, len(raw))
	for _, v := range raw {
		options = append(options, Option{ID: v.ID, Label: v.Name, Value: v.ID})
	}
	return options, nil
}

// Assign attaches a vendor to an outlet's fabrication work. A zero vendor id
// is refused before any network call.
func (s *Service) Assign(ctx context.Context, sess *session.Session, outletID, vendorID int) error {
	if vendorID <= 0 {
		return ErrVendorRequired
	}

	path := fmt.Sprintf("/nso/outlets/%d/vendor", outletID)
	payload := map[string]int{"vendorId": vendorID}
	if _, err := s.upstream.Post(ctx, sess, path, payload, nil); err != nil {
		return fmt.Errorf("assign vendor %d to outlet %d: %w", vendorID, outletID, err)
	}

	s.logger.Info("Vendor assigned",
		zap.Int("outlet_id", outletID),
		zap.Int("vendor_id", vendorID))
	return nil
}
