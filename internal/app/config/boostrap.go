package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	Redis          *redis.Client
	Minio          *minio.Client
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	ReferenceData  *ReferenceData
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing Redis")
	}

	// minio-go keeps no long-lived connection to close

	if b.Logger != nil {
		// Sync on stdout/stderr returns EINVAL on some platforms; nothing to flush there.
		_ = b.Logger.Sync()
		log.Println("Successfully closing Logger")
	}

	return nil
}
