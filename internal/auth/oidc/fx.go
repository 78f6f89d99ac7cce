package oidc

import (
	"context"

	"go.uber.org/fx"

	"github.com/Harindu7/Keycloak/internal/config"
)

var Module = fx.Module("auth.oidc",
	fx.Provide(func(cfg config.Config) (*Provider, error) {
		return NewProvider(context.Background(), cfg.Keycloak)
	}),
)
