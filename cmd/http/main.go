package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"virem-service/internal/app/config"
	"virem-service/internal/app/contracts"
	"virem-service/internal/app/delivery/http/controllers"
	"virem-service/internal/app/delivery/http/middlewares"
	"virem-service/internal/app/delivery/http/routers"
	"virem-service/internal/app/drivers/database"
	"virem-service/internal/app/drivers/logger"
	"virem-service/internal/app/drivers/storage"
	"virem-service/internal/app/services/core/auth"
	"virem-service/internal/app/services/core/reference"
	"virem-service/internal/app/services/core/registration"
	"virem-service/internal/app/services/core/session"
	"virem-service/internal/app/services/shared/backendapi"
	"virem-service/internal/app/services/shared/kvstore"
	"virem-service/internal/app/services/shared/locker"
	"virem-service/internal/app/services/shared/ratelimiter"
	redisRepo "virem-service/internal/app/services/shared/redis"
	minioStorage "virem-service/internal/app/services/shared/storage"
	"virem-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	redisClient := database.NewRedisClient(driverConfig)
	minioClient := storage.NewMinio(driverConfig, internalConfig.Minio.BucketName)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
		ReferenceData:  config.NewReferenceData(),
	}

	err = bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatalf("Error bootstraping the app: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		log.Printf("Server listening on port %s", internalConfig.App.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig

	// Shared services
	redisRepository := redisRepo.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, log)
	quotaLimiter := ratelimiter.NewResourceLimiter(redisRepository, log)
	photoStorage := minioStorage.NewMinioStorage(bootstrap.Minio)
	backendClient := backendapi.NewBackendClient(internalConfig.Backend, log)

	// Session
	keyValueStore, err := newKeyValueStore(internalConfig.Session, redisRepository, log)
	if err != nil {
		return err
	}
	sessionStore := session.NewSessionStore(keyValueStore, internalConfig.Session.DefaultTTL, log)

	// Reference
	referenceUsecase := reference.NewReferenceUsecase(bootstrap.ReferenceData, log)
	referenceController := controllers.NewReferenceController(log, referenceUsecase)

	// Registration
	registrationEngine := registration.NewEngine(internalConfig.Registration, bootstrap.ReferenceData, backendClient, quotaLimiter, log)
	registrationUsecase := registration.NewRegistrationUsecase(registrationEngine, redisRepository, lockService, backendClient, photoStorage, internalConfig, log)
	registrationController := controllers.NewRegistrationController(log, registrationUsecase, internalConfig)

	// Auth
	authUsecase := auth.NewAuthUsecase(backendClient, sessionStore, redisRepository, lockService, quotaLimiter, internalConfig, log)
	authController := controllers.NewAuthController(log, authUsecase, internalConfig)

	middlewares := middlewares.NewMiddlewares(log, internalConfig)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, referenceController, registrationController, authController)
	return nil
}

// newKeyValueStore picks where sessions live: redis for a shared deployment, an
// encrypted directory when the gateway runs next to a single device.
func newKeyValueStore(sessionConfig config.AppSession, redisRepository contracts.RedisRepository, log *zap.Logger) (contracts.KeyValueStore, error) {
	switch sessionConfig.Driver {
	case constvars.SessionDriverFile:
		log.Info("Session store uses encrypted files", zap.String("directory", sessionConfig.FileDirectory))
		return kvstore.NewEncryptedFileStore(sessionConfig.FileDirectory, sessionConfig.EncryptionSecret)
	default:
		log.Info("Session store uses redis")
		return kvstore.NewRedisStore(redisRepository, constvars.RedisKeyPrefixSession), nil
	}
}
