package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subtrack/internal/clock"
	"github.com/smallbiznis/subtrack/internal/config"
	"github.com/smallbiznis/subtrack/internal/logger"
	"github.com/smallbiznis/subtrack/internal/migration"
	"github.com/smallbiznis/subtrack/internal/payment"
	"github.com/smallbiznis/subtrack/internal/reporting"
	"github.com/smallbiznis/subtrack/internal/server"
	"github.com/smallbiznis/subtrack/internal/subscription"
	"github.com/smallbiznis/subtrack/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		subscription.Module,
		payment.Module,
		reporting.Module,

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
