package keycloak

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/config"
	"github.com/Harindu7/Keycloak/internal/providers/email"
	"github.com/Harindu7/Keycloak/internal/verification"
)

var Module = fx.Module("keycloak",
	fx.Provide(provideClient),
	fx.Provide(provideService),
)

func provideClient(cfg config.Config) *Client {
	return NewClient(cfg.Keycloak)
}

func provideService(client *Client, mail email.Provider, codec *verification.Codec, cfg config.Config, log *zap.Logger) *Service {
	return NewService(client, mail, codec, cfg, log)
}
