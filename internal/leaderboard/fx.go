package leaderboard

import (
	"github.com/naxum/tsa-backend/internal/leaderboard/repository"
	"github.com/naxum/tsa-backend/internal/leaderboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("leaderboard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
