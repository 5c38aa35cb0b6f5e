package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// StateManager records which source products have already been imported and
// where they landed, so provenance survives across runs.
type StateManager interface {
	// GetImportedProduct returns the catalog product id a source product was
	// imported as, or "" when it has never been imported.
	GetImportedProduct(ctx context.Context, sourceID int64) (string, error)
	SetImportedProduct(ctx context.Context, sourceID int64, productID string) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "aliexpress:imported:product:",
	}
}

func (s *redisStateManager) GetImportedProduct(ctx context.Context, sourceID int64) (string, error) {
	key := s.keyPrefix + strconv.FormatInt(sourceID, 10)
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // Never imported
		}
		return "", fmt.Errorf("failed to get import state for product %d: %w", sourceID, err)
	}
	return val, nil
}

func (s *redisStateManager) SetImportedProduct(ctx context.Context, sourceID int64, productID string) error {
	key := s.keyPrefix + strconv.FormatInt(sourceID, 10)
	if err := s.redisClient.Set(ctx, key, productID, 0).Err(); err != nil { // No expiration
		return fmt.Errorf("failed to record import state for product %d: %w", sourceID, err)
	}
	return nil
}
