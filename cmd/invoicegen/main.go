package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicegen/internal/analytics"
	"github.com/smallbiznis/invoicegen/internal/checkout"
	"github.com/smallbiznis/invoicegen/internal/client"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/smallbiznis/invoicegen/internal/invoice"
	"github.com/smallbiznis/invoicegen/internal/migration"
	"github.com/smallbiznis/invoicegen/internal/observability"
	"github.com/smallbiznis/invoicegen/internal/paymentprovider"
	"github.com/smallbiznis/invoicegen/internal/providers"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice"
	"github.com/smallbiznis/invoicegen/internal/ratelimit"
	"github.com/smallbiznis/invoicegen/internal/server"
	"github.com/smallbiznis/invoicegen/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		paymentprovider.Module,
		invoice.Module,
		client.Module,
		checkout.Module,
		publicinvoice.Module,
		analytics.Module,
		providers.Module,
		ratelimit.Module,

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
