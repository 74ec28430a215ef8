/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package persistence

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/config"
	"github.com/friendsincode/grimnir_timer/internal/db"
)

// OpenBackend builds the image backend selected by cfg.
func OpenBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Backend, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Warn().Msg("memory store selected, schedule will not survive a restart")
		return NewMemoryBackend(nil), nil
	case config.StoreFile:
		return NewFileBackend(cfg.StorePath), nil
	case config.StoreSQLite, config.StorePostgres, config.StoreMySQL:
		database, err := db.Connect(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return NewGormBackend(database, cfg.StoreName, func() error { return db.Close(database) }), nil
	case config.StoreRedis:
		return NewRedisBackend(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Name:     cfg.StoreName,
		})
	case config.StoreS3:
		return NewS3Backend(ctx, S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			UsePathStyle:    cfg.S3UsePathStyle,
			Name:            cfg.StoreName,
		})
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

// Open builds the configured backend and reads an image sized for cfg.Slots.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Image, error) {
	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	img, err := OpenImage(ctx, backend, ImageSize(cfg.Slots), logger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return img, nil
}
