package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
)

// ErrMissingFields is returned when the login form is incomplete; it never
// reaches the identity API.
var ErrMissingFields = errors.New("auth: please fill the fields")

// Credentials is the login form payload. The identifier can be an email or
// an employee id.
type Credentials struct {
	EmailOrID string `json:"emailOrId"`
	Password  string `json:"password"`
}

// loginResponse is what the HRMS identity API returns on success.
type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Name         string `json:"name"`
	EmpID        string `json:"empId"`
	ID           int    `json:"id"`
}

// Upstream is the identity API surface the auth service consumes.
type Upstream interface {
	Post(ctx context.Context, sess *session.Session, path string, body, out any) (int, error)
}

// Service exchanges credentials for a portal session via the HRMS identity
// API. Token issuance and verification stay upstream.
type Service struct {
	upstream Upstream
	logger   *zap.Logger
}

// NewService creates the auth service
func NewService(upstream Upstream, logger *zap.Logger) *Service {
	return &Service{upstream: upstream, logger: logger}
}

// Login validates the form, calls the identity API and builds the session.
// The identity API acknowledges with 201.
func (s *Service) Login(ctx context.Context, creds Credentials) (*session.Session, error) {
	if creds.EmailOrID == "" || creds.Password == "" {
		return nil, ErrMissingFields
	}

	payload := map[string]string{
		"email":    creds.EmailOrID,
		"password": creds.Password,
	}

	var resp loginResponse
	status, err := s.upstream.Post(ctx, &session.Session{}, "/hrms/auth/login", payload, &resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("login: unexpected status %d", status)
	}

	userID := ""
	if resp.ID != 0 {
		userID = strconv.Itoa(resp.ID)
	}

	s.logger.Info("Reviewer logged in", zap.String("emp_id", resp.EmpID))

	return &session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Name:         resp.Name,
		EmpID:        resp.EmpID,
		UserID:       userID,
	}, nil
}
