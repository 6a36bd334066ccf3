package components

import (
	"courtside/internal/domain/reservation"
	"courtside/internal/infra/gateway"
	"courtside/internal/pkg/clock"
	"courtside/internal/pkg/config"
	"courtside/internal/usecase/commands"
	"courtside/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(clk clock.Clock, cfg config.ReservationConfig) *reservation.Factory {
		return reservation.NewFactory(clk, cfg.HoldWindow, cfg.AsyncSettlementGrace)
	},
	fx.Annotate(
		func(cfg config.Config) *gateway.StripeVerifier {
			return gateway.NewStripeVerifier(cfg.Gateway.WebhookSecret)
		},
		fx.As(new(commands.WebhookVerifier)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewPaymentCommands,
		commands.NewCreditCommands,
		commands.NewSweeperCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewWalletQueries,
	),
)
