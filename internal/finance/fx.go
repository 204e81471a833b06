package finance

import (
	"github.com/smallbiznis/stokra/internal/finance/repository"
	"github.com/smallbiznis/stokra/internal/finance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("finance.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
