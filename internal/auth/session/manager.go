package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harindu7/Keycloak/internal/config"
)

const (
	DefaultCookieName = "_sid"
	StateCookieName   = "_oauth_state"

	stateTTL = 10 * time.Minute
)

// Manager manages auth session cookies.
type Manager struct {
	cookieName string
	secure     bool
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cookieName: DefaultCookieName,
		secure:     cfg.AuthCookieSecure,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

func (m *Manager) Set(c *gin.Context, value string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, "/", "", m.secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

// SetState stores the OAuth state for the in-flight login redirect.
func (m *Manager) SetState(c *gin.Context, state string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookieName, state, int(stateTTL.Seconds()), "/", "", m.secure, true)
}

// TakeState reads and clears the OAuth state cookie.
func (m *Manager) TakeState(c *gin.Context) (string, bool) {
	state, err := c.Cookie(StateCookieName)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookieName, "", -1, "/", "", m.secure, true)
	if err != nil || strings.TrimSpace(state) == "" {
		return "", false
	}
	return state, true
}
