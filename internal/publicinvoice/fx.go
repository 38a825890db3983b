package publicinvoice

import (
	"github.com/smallbiznis/invoicegen/internal/publicinvoice/render"
	"github.com/smallbiznis/invoicegen/internal/publicinvoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"publicinvoice",
	fx.Provide(service.New),
	fx.Provide(render.NewRenderer),
)
