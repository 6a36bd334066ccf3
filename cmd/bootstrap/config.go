package bootstrap

import (
	"courtside/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.ReservationConfig { return cfg.Reservation },
		func(cfg config.Config) config.SweeperConfig { return cfg.Sweeper },
	),
)
