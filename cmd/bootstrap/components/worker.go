package components

import (
	"context"

	"courtside/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewSweeper,
		worker.NewOutboxRelay,
	),
	fx.Invoke(startWorkers),
)

func startWorkers(lc fx.Lifecycle, sweeper *worker.Sweeper, relay *worker.OutboxRelay) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweeper.Run(ctx)
			go relay.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
