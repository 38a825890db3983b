package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicegen/internal/checkout"
	"github.com/smallbiznis/invoicegen/internal/clock"
	"github.com/smallbiznis/invoicegen/internal/config"
	"github.com/smallbiznis/invoicegen/internal/invoice"
	"github.com/smallbiznis/invoicegen/internal/observability"
	"github.com/smallbiznis/invoicegen/internal/paymentprovider"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice"
	"github.com/smallbiznis/invoicegen/internal/ratelimit"
	"github.com/smallbiznis/invoicegen/internal/server"
	"github.com/smallbiznis/invoicegen/pkg/db"
	"go.uber.org/fx"
)

// Serves only the shareable invoice pages; the dashboard API runs in cmd/invoicegen.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		paymentprovider.Module,
		invoice.Module,
		checkout.Module,
		publicinvoice.Module, // Read-only view and Pay Now
		ratelimit.Module,     // Public endpoints are rate limited

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterPublicRoutes()
		}),
		fx.Invoke(server.RunHTTP),
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
