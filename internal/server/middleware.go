package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/auth/session"
)

const (
	contextSubjectKey  = "subject_id"
	contextEmailKey    = "email"
	contextUsernameKey = "username"
	contextSessionKey  = "session"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "keycloak_companion_http_requests_total",
	Help: "HTTP requests by method, route and status.",
}, []string{"method", "route", "status"})

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(
			c.Request.Method,
			route,
			statusClass(c.Writer.Status()),
		).Inc()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// AuthRequired resolves the session cookie and loads the login session into
// the request context. Requests without a live session are redirected to
// the login entry point rather than rejected, since these routes back a
// browser flow.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			c.Redirect(http.StatusFound, "/auth/login")
			c.Abort()
			return
		}

		sess, err := s.store.Find(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				s.sessions.Clear(c)
				c.Redirect(http.StatusFound, "/auth/login")
				c.Abort()
				return
			}
			AbortWithError(c, err)
			return
		}

		c.Set(contextSubjectKey, sess.SubjectID)
		c.Set(contextEmailKey, sess.Email)
		c.Set(contextUsernameKey, sess.Username)
		c.Set(contextSessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(contextSessionKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}
