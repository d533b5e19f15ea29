package store

import (
	"fmt"
	"strings"

	"github.com/chronidx/chronidx/internal/compression"
	"github.com/chronidx/chronidx/internal/config"
	"github.com/chronidx/chronidx/internal/utils"
)

// NewStore creates a Store instance based on configuration.
// Default is the in-memory store if type is not specified.
func NewStore(cfg config.StoreConfig) (Store, error) {
	storeType := utils.StoreType(strings.ToLower(cfg.Type))

	if storeType == "" {
		storeType = utils.StoreTypeMemory
	}

	switch storeType {
	case utils.StoreTypeMemory:
		return NewMemoryStore(), nil

	case utils.StoreTypeRedis:
		algo, err := compression.ParseAlgorithm(cfg.Compression)
		if err != nil {
			return nil, err
		}
		codec, err := compression.GetCompressor(algo)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(RedisConfig{
			URL:       cfg.URL,
			Password:  cfg.Password,
			DB:        cfg.DB,
			KeyPrefix: cfg.KeyPrefix,
			Codec:     codec,
		})

	default:
		return nil, fmt.Errorf("unsupported store type: %s (supported: memory, redis)", storeType)
	}
}
