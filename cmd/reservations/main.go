package main

import (
	"clubhouse/internal/locks/repository"
	reshandler "clubhouse/internal/reservations/handler"
	resrepository "clubhouse/internal/reservations/repository"
	"clubhouse/internal/reservations/service"
	"clubhouse/internal/reservations/validator"
	"clubhouse/pkg/app"
	"clubhouse/pkg/authz"
	"clubhouse/pkg/claim"
	"clubhouse/pkg/config"
	"clubhouse/pkg/kafka"
	kafkaconfig "clubhouse/pkg/kafka/config"
	kafkamiddleware "clubhouse/pkg/kafka/middleware"
	"clubhouse/pkg/notify"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")
	reservationService, producer := initServices(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(reshandler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.ReservationService, *kafka.Producer) {
	kafkaCfg := kafkaconfig.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, notify.Topic, notify.Topic+".dlq")
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafkamiddleware.MetricsProducerMiddleware())
	}

	reservationService := service.NewReservationService(
		resrepository.NewMongoReservationRepository(cfg),
		repository.NewMongoLockRepository(cfg),
		validator.NewReservationValidator(cfg.Log, cfg.MaxInviteesPerBooking),
		claim.NewRedisClaimer(cfg.Client.Redis, cfg.ClaimTTL),
		authz.NewHTTPGate(cfg.MembersServiceURL),
		authz.NewHTTPDirectory(cfg.MembersServiceURL),
		notify.NewKafkaDispatcher(producer, ServiceName, cfg.Log),
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, producer
}
