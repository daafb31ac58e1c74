package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated reviewer context threaded explicitly through
// every upstream call site. It replaces ambient global auth state: handlers
// load it from the cookie store, pass it down, and never mutate it mid-flight.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Name         string `json:"name"`
	EmpID        string `json:"empId"`
	UserID       string `json:"userId"`
}

// ErrNoSession is returned when no usable session is present.
var ErrNoSession = errors.New("session: not authenticated")

// Authenticated reports whether the session carries an access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// TokenExpired inspects the access token's exp claim without verifying the
// signature. Token issuance and verification belong to the identity API; the
// portal only needs to know whether a re-login is due.
func (s *Session) TokenExpired(now time.Time) bool {
	if !s.Authenticated() {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.AccessToken, claims); err != nil {
		// An opaque token is not the portal's problem; let the upstream 401.
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
