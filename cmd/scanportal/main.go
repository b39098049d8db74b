package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/stepsciences/scanportal/internal/adminauth"
	"github.com/stepsciences/scanportal/internal/authorization"
	"github.com/stepsciences/scanportal/internal/cache"
	"github.com/stepsciences/scanportal/internal/clock"
	"github.com/stepsciences/scanportal/internal/company"
	"github.com/stepsciences/scanportal/internal/config"
	"github.com/stepsciences/scanportal/internal/migration"
	"github.com/stepsciences/scanportal/internal/observability"
	"github.com/stepsciences/scanportal/internal/ratelimit"
	"github.com/stepsciences/scanportal/internal/resolver"
	"github.com/stepsciences/scanportal/internal/server"
	"github.com/stepsciences/scanportal/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		cache.Module,

		migration.Module,

		company.Module,
		adminauth.Module,
		authorization.Module,
		ratelimit.Module,
		resolver.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
