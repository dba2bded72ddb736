package referral

import (
	"github.com/naxum/tsa-backend/internal/referral/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("referral",
	fx.Provide(repository.Provide),
)
