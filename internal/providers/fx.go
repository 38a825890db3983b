package providers

import (
	"github.com/smallbiznis/invoicegen/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(pdf.New),
)
