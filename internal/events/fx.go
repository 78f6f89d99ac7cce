package events

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/clock"
	"github.com/Harindu7/Keycloak/internal/config"
)

var Module = fx.Module("events",
	fx.Provide(provideMetrics),
	fx.Provide(provideDispatcher),
	fx.Provide(provideNotifier),
	fx.Provide(NewListener),
	fx.Invoke(runNotifier),
)

func provideMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

func provideDispatcher(cfg config.Config, log *zap.Logger, metrics *Metrics) *Dispatcher {
	return NewDispatcher(cfg.Notifier, &http.Client{}, log, metrics)
}

func provideNotifier(cfg config.Config, dispatcher *Dispatcher, clk clock.Clock, log *zap.Logger, metrics *Metrics) *Notifier {
	return NewNotifier(cfg.Notifier, dispatcher, clk, log, metrics)
}

func runNotifier(lc fx.Lifecycle, notifier *Notifier) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			notifier.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			notifier.Close()
			return nil
		},
	})
}
