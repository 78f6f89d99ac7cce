// Package server exposes the HTTP surface: the OIDC login round trip,
// organization setup, email verification, and the Keycloak notification
// sinks.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	accountstatusdomain "github.com/Harindu7/Keycloak/internal/accountstatus/domain"
	"github.com/Harindu7/Keycloak/internal/auth/oidc"
	"github.com/Harindu7/Keycloak/internal/auth/session"
	"github.com/Harindu7/Keycloak/internal/config"
	"github.com/Harindu7/Keycloak/internal/events"
	"github.com/Harindu7/Keycloak/internal/keycloak"
	organizationdomain "github.com/Harindu7/Keycloak/internal/organization/domain"
)

// Authenticator is the slice of the OIDC provider the handlers use.
type Authenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (oidc.Identity, error)
	LogoutURL(idTokenHint string) string
}

// Registrar registers users in the realm and verifies their email.
type Registrar interface {
	RegisterUser(ctx context.Context, req keycloak.RegisterRequest) (keycloak.User, error)
	VerifyEmail(ctx context.Context, token string) error
}

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(func(p *oidc.Provider) Authenticator { return p }),
	fx.Provide(func(s *keycloak.Service) Registrar { return s }),
	fx.Provide(func(l *events.Listener) EventSink { return l }),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(requestMetrics())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	auth       Authenticator
	registrar  Registrar
	sessions   *session.Manager
	store      *session.Store
	accountSvc accountstatusdomain.Service
	orgSvc     organizationdomain.Service
	sink       EventSink
	log        *zap.Logger

	registerLimiter *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Auth       Authenticator
	Registrar  Registrar
	Sessions   *session.Manager
	Store      *session.Store
	AccountSvc accountstatusdomain.Service
	OrgSvc     organizationdomain.Service
	Sink       EventSink
	Log        *zap.Logger
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		auth:       p.Auth,
		registrar:  p.Registrar,
		sessions:   p.Sessions,
		store:      p.Store,
		accountSvc: p.AccountSvc,
		orgSvc:     p.OrgSvc,
		sink:       p.Sink,
		log:        p.Log,

		registerLimiter: newRateLimiter(5, 10*time.Minute),
	}

	s.registerAuthRoutes()
	s.registerAppRoutes()
	s.registerEventSinks()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.GET("/login", s.Login)
	auth.GET("/callback", s.Callback)
	auth.POST("/register", s.RegisterRateLimit(s.registerLimiter), s.Register)
	auth.GET("/verify-email", s.VerifyEmail)

	s.engine.GET("/logout", s.Logout)
}

func (s *Server) registerAppRoutes() {
	s.engine.GET("/", s.Home)
	s.engine.GET("/login", s.LoginPage)
	s.engine.GET("/dashboard", s.AuthRequired(), s.Dashboard)
	s.engine.GET("/organization-setup", s.AuthRequired(), s.GetOrganizationSetup)
	s.engine.POST("/organization-setup", s.AuthRequired(), s.PostOrganizationSetup)
}

func (s *Server) registerEventSinks() {
	api := s.engine.Group("/api/keycloak")

	api.POST("/login", s.ReceiveLoginEvent)
	api.POST("/registration", s.ReceiveRegistrationEvent)

	hooks := s.engine.Group("/webhooks/keycloak")

	hooks.POST("/events", s.IngestEvent)
	hooks.POST("/admin-events", s.IngestAdminEvent)
}
