package commission

import (
	"github.com/naxum/tsa-backend/internal/commission/repository"
	"github.com/naxum/tsa-backend/internal/commission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commission.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
