package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/config"
)

const (
	attemptOutcomeDelivered   = "delivered"
	attemptOutcomeRejected    = "rejected"
	attemptOutcomeUnreachable = "unreachable"
)

// Dispatcher posts a notification to the first candidate endpoint that
// accepts it. Endpoints are tried in configured order; an attempt succeeds
// only on HTTP 200, anything else moves on to the next candidate. Dispatch
// never returns an error: exhausting every endpoint is logged and counted,
// not propagated.
type Dispatcher struct {
	endpoints           []string
	loginTimeout        time.Duration
	registrationTimeout time.Duration
	client              *http.Client
	log                 *zap.Logger
	metrics             *Metrics
}

// NewDispatcher builds a dispatcher from notifier config. The http.Client is
// shared across attempts; per-attempt deadlines come from the event kind.
func NewDispatcher(cfg config.NotifierConfig, client *http.Client, log *zap.Logger, metrics *Metrics) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Dispatcher{
		endpoints:           cfg.Endpoints,
		loginTimeout:        cfg.LoginTimeout,
		registrationTimeout: cfg.RegistrationTimeout,
		client:              client,
		log:                 log,
		metrics:             metrics,
	}
}

func (d *Dispatcher) timeoutFor(kind Kind) time.Duration {
	if kind == KindLogin {
		return d.loginTimeout
	}
	return d.registrationTimeout
}

// Dispatch delivers n to the first accepting endpoint and reports whether
// any endpoint accepted it.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) bool {
	body, err := json.Marshal(n.Body)
	if err != nil {
		d.log.Error("encode notification", zap.String("path", n.Path), zap.Error(err))
		d.metrics.IncFailed(n.Kind)
		return false
	}

	timeout := d.timeoutFor(n.Kind)
	for _, endpoint := range d.endpoints {
		if d.attempt(ctx, endpoint, n.Path, body, timeout) {
			d.metrics.IncDelivered(n.Kind)
			return true
		}
	}

	d.log.Warn("notification exhausted all endpoints",
		zap.String("path", n.Path),
		zap.String("event_type", string(n.Kind)),
		zap.Int("endpoints", len(d.endpoints)),
	)
	d.metrics.IncFailed(n.Kind)
	return false
}

func (d *Dispatcher) attempt(ctx context.Context, endpoint, path string, body []byte, timeout time.Duration) bool {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := endpoint + path
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		d.log.Debug("build notification request", zap.String("url", url), zap.Error(err))
		d.metrics.IncAttempt(endpoint, attemptOutcomeUnreachable)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.Debug("notification endpoint unreachable", zap.String("url", url), zap.Error(err))
		d.metrics.IncAttempt(endpoint, attemptOutcomeUnreachable)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		d.log.Debug("notification rejected",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		d.metrics.IncAttempt(endpoint, attemptOutcomeRejected)
		return false
	}

	d.log.Info("notification delivered", zap.String("url", url))
	d.metrics.IncAttempt(endpoint, attemptOutcomeDelivered)
	return true
}
