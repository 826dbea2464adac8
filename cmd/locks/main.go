package main

import (
	"clubhouse/internal/locks/handler"
	"clubhouse/internal/locks/repository"
	"clubhouse/internal/locks/service"
	"clubhouse/internal/locks/validator"
	resrepository "clubhouse/internal/reservations/repository"
	"clubhouse/pkg/app"
	"clubhouse/pkg/authz"
	"clubhouse/pkg/config"
)

const ServiceName = "locks"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Locks service")
	lockService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewLockHandler(lockService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.LockService {
	lockService := service.NewLockService(
		repository.NewMongoLockRepository(cfg),
		resrepository.NewMongoReservationRepository(cfg),
		validator.NewLockValidator(cfg.Log),
		authz.NewHTTPGate(cfg.MembersServiceURL),
		authz.NewHTTPDirectory(cfg.MembersServiceURL),
		cfg,
	)

	cfg.Log.Info("Lock service initialized", "database", cfg.MongoDatabaseName)
	return lockService
}
