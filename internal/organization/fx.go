package organization

import (
	"github.com/Harindu7/Keycloak/internal/organization/repository"
	"github.com/Harindu7/Keycloak/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
