package order

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/stokra/internal/order/repository"
	"github.com/smallbiznis/stokra/internal/order/service"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
