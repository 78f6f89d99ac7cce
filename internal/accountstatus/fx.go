package accountstatus

import (
	"github.com/Harindu7/Keycloak/internal/accountstatus/repository"
	"github.com/Harindu7/Keycloak/internal/accountstatus/service"
	"go.uber.org/fx"
)

var Module = fx.Module("accountstatus.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
