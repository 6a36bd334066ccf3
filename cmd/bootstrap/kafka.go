package bootstrap

import (
	"context"

	"courtside/internal/infra/kafkabus"
	"courtside/internal/pkg/config"
	"courtside/internal/worker"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		fx.Annotate(
			NewKafkaProducer,
			fx.As(new(worker.Publisher)),
		),
	),
)

func NewKafkaProducer(lc fx.Lifecycle, cfg config.Config) *kafkabus.Producer {
	producer := kafkabus.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OutboxTopic)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return producer
}
