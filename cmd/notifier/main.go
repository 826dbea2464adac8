package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"clubhouse/pkg/config"
	"clubhouse/pkg/kafka"
	kafkaconfig "clubhouse/pkg/kafka/config"
	kafkamiddleware "clubhouse/pkg/kafka/middleware"
	"clubhouse/pkg/logger"
	"clubhouse/pkg/notify"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier service")

	kafkaCfg := kafkaconfig.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	consumer, err := kafka.NewConsumer(kafkaCfg, notify.Topic, consumerGroup, notify.Topic+".dlq", deliver(cfg.Log))
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafkamiddleware.MetricsConsumerMiddleware())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}

// deliver fans a lifecycle event out to its recipients. Delivery here is a
// structured log line per recipient; mail or push integrations slot in behind
// the same handler.
func deliver(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event notify.Event
		if err := msg.DecodeValue(&event); err != nil {
			log.Error("Failed to decode event", "event_id", msg.GetEventID(), "error", err)
			return err
		}

		for _, recipient := range event.Recipients {
			log.Info("Delivering notification",
				"kind", event.Kind,
				"recipient", recipient,
				"reservation_id", event.ReservationID,
				"resource_id", event.ResourceID,
				"actor", event.Actor,
				"detail", event.Detail,
			)
		}
		return nil
	}
}
