package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/auth/session"
	"github.com/Harindu7/Keycloak/internal/keycloak"
)

// Login starts the OIDC handshake: a fresh state is pinned to a cookie and
// the browser is sent to the realm's authorization endpoint.
func (s *Server) Login(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.SetState(c, state)
	c.Redirect(http.StatusFound, s.auth.AuthCodeURL(state))
}

// Callback finishes the handshake, opens a session and routes the user by
// their provisioning state.
func (s *Server) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		s.log.Warn("authorization denied",
			zap.String("error", errParam),
			zap.String("description", c.Query("error_description")),
		)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	state, ok := s.sessions.TakeState(c)
	if !ok || state != c.Query("state") {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	code := c.Query("code")
	if code == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity, err := s.auth.Exchange(c.Request.Context(), code)
	if err != nil {
		s.log.Error("code exchange failed", zap.Error(err))
		AbortWithError(c, ErrUnauthorized)
		return
	}

	sess, err := s.store.Create(c.Request.Context(), identity, session.DefaultTTL)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, sess.Token, sess.ExpiresAt)

	route, err := s.accountSvc.ResolveRoute(c.Request.Context(), identity.Subject, identity.Email)
	if err != nil {
		s.log.Error("resolve route", zap.String("subject_id", identity.Subject), zap.Error(err))
		AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, string(route))
}

// Logout drops the local session and sends the browser through the realm's
// RP-initiated logout so the Keycloak session ends too.
func (s *Server) Logout(c *gin.Context) {
	var idTokenHint string
	if token, ok := s.sessions.ReadToken(c); ok {
		if sess, err := s.store.Find(c.Request.Context(), token); err == nil {
			idTokenHint = sess.IDToken
		}
		if err := s.store.Delete(c.Request.Context(), token); err != nil {
			s.log.Warn("delete session", zap.Error(err))
		}
	}
	s.sessions.Clear(c)
	c.Redirect(http.StatusFound, s.auth.LogoutURL(idTokenHint))
}

// Register creates a realm user from a signup form.
func (s *Server) Register(c *gin.Context) {
	var req keycloak.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	user, err := s.registrar.RegisterUser(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// VerifyEmail redeems the token from a verification link.
func (s *Server) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		AbortWithError(c, newValidationError("token", "missing_token", "token is required"))
		return
	}
	if err := s.registrar.VerifyEmail(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
