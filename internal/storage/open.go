package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hyperflash/contact-api/internal/config"
)

// Open creates the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.KV, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		logger.Warn("using in-memory store; submissions are lost on restart")
		return NewMemoryStore(), nil
	case config.BackendPostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return NewPostgresStore(pool), nil
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL)
	case config.BackendDynamoDB:
		s, err := NewDynamoStore(ctx, DynamoConfig{
			Table:     cfg.DynamoDBTable,
			Region:    cfg.DynamoDBRegion,
			Endpoint:  cfg.DynamoDBEndpoint,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.Backend)
	}
}
