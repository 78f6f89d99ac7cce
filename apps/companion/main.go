package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Harindu7/Keycloak/internal/accountstatus"
	accountstatusdomain "github.com/Harindu7/Keycloak/internal/accountstatus/domain"
	"github.com/Harindu7/Keycloak/internal/auth"
	"github.com/Harindu7/Keycloak/internal/auth/session"
	"github.com/Harindu7/Keycloak/internal/clock"
	"github.com/Harindu7/Keycloak/internal/config"
	"github.com/Harindu7/Keycloak/internal/events"
	"github.com/Harindu7/Keycloak/internal/keycloak"
	"github.com/Harindu7/Keycloak/internal/logger"
	"github.com/Harindu7/Keycloak/internal/organization"
	organizationdomain "github.com/Harindu7/Keycloak/internal/organization/domain"
	"github.com/Harindu7/Keycloak/internal/providers/email"
	"github.com/Harindu7/Keycloak/internal/server"
	"github.com/Harindu7/Keycloak/internal/verification"
	"github.com/Harindu7/Keycloak/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		fx.Invoke(Migrate),

		verification.Module,
		email.Module,
		accountstatus.Module,
		organization.Module,
		keycloak.Module,
		events.Module,
		auth.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&accountstatusdomain.AccountStatus{},
		&organizationdomain.Organization{},
		&session.Session{},
	)
}
