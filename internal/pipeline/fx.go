package pipeline

import (
	"github.com/smallbiznis/stokra/internal/pipeline/repository"
	"github.com/smallbiznis/stokra/internal/pipeline/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pipeline.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
