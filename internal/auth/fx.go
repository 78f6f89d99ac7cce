package auth

import (
	"go.uber.org/fx"

	"github.com/Harindu7/Keycloak/internal/auth/oidc"
	"github.com/Harindu7/Keycloak/internal/auth/session"
)

var Module = fx.Module("auth",
	oidc.Module,
	session.Module,
)
