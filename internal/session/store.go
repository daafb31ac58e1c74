package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retail-nso/admin-portal/admin-portal-backend/internal/config"
)

const (
	cookieAccessToken  = "accessToken"
	cookieRefreshToken = "refreshToken"
	cookieName         = "name"
	cookieEmpID        = "empId"
	cookieUserID       = "userId"
)

// CookieStore persists the session as the portal's five cookies. The five are
// always written and cleared together; a partially written session is never
// observable.
type CookieStore struct {
	cfg config.SessionConfig
}

// NewCookieStore creates a cookie-backed session store
func NewCookieStore(cfg config.SessionConfig) *CookieStore {
	return &CookieStore{cfg: cfg}
}

// Load reads the session from the request cookies. A request without an
// access token cookie yields ErrNoSession.
func (cs *CookieStore) Load(c *gin.Context) (*Session, error) {
	token, err := c.Cookie(cookieAccessToken)
	if err != nil || token == "" {
		return nil, ErrNoSession
	}

	s := &Session{AccessToken: token}
	s.RefreshToken, _ = c.Cookie(cookieRefreshToken)
	s.Name, _ = c.Cookie(cookieName)
	s.EmpID, _ = c.Cookie(cookieEmpID)
	s.UserID, _ = c.Cookie(cookieUserID)
	return s, nil
}

// Save writes all five session cookies as a unit.
func (cs *CookieStore) Save(c *gin.Context, s *Session) {
	maxAge := int(cs.cfg.CookieMaxAge.Seconds())
	cs.set(c, cookieAccessToken, s.AccessToken, maxAge)
	cs.set(c, cookieRefreshToken, s.RefreshToken, maxAge)
	cs.set(c, cookieName, s.Name, maxAge)
	cs.set(c, cookieEmpID, s.EmpID, maxAge)
	cs.set(c, cookieUserID, s.UserID, maxAge)
}

// Clear expires all five session cookies.
func (cs *CookieStore) Clear(c *gin.Context) {
	for _, name := range []string{
		cookieAccessToken, cookieRefreshToken, cookieName, cookieEmpID, cookieUserID,
	} {
		cs.set(c, name, "", -1)
	}
}

func (cs *CookieStore) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", cs.cfg.CookieDomain, cs.cfg.Secure, true)
}
