package email

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Harindu7/Keycloak/internal/config"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.Mail.APIKey == "" || cfg.Mail.APISecret == "" {
		log.Warn("mailjet credentials missing, outbound email disabled")
		return &NoOpProvider{}
	}
	return NewMailjet(MailjetConfig{
		APIKey:    cfg.Mail.APIKey,
		APISecret: cfg.Mail.APISecret,
		FromEmail: cfg.Mail.FromEmail,
		FromName:  cfg.Mail.FromName,
	})
}
