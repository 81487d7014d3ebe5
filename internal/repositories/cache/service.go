package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taxchain/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps Redis with JSON marshaling and domain-specific helpers.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheService creates a cache service with a default TTL.
func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Risk history caching

func (s *CacheService) CacheRiskHistory(ctx context.Context, taxpayerID string, analyses []models.RiskAnalysis) error {
	return s.Set(ctx, s.GenerateKey("analysis", "taxpayer", taxpayerID), analyses)
}

func (s *CacheService) GetRiskHistory(ctx context.Context, taxpayerID string) ([]models.RiskAnalysis, bool, error) {
	var analyses []models.RiskAnalysis
	found, err := s.Get(ctx, s.GenerateKey("analysis", "taxpayer", taxpayerID), &analyses)
	return analyses, found, err
}

func (s *CacheService) InvalidateRiskHistory(ctx context.Context, taxpayerID string) error {
	return s.Delete(ctx, s.GenerateKey("analysis", "taxpayer", taxpayerID))
}

// Ledger transaction caching

func (s *CacheService) CacheTransaction(ctx context.Context, tx *models.LedgerTransaction) error {
	if tx == nil {
		return fmt.Errorf("cannot cache nil transaction")
	}
	return s.Set(ctx, s.GenerateKey("ledger", "hash", tx.TransactionHash), tx)
}

func (s *CacheService) GetTransaction(ctx context.Context, hash string) (*models.LedgerTransaction, bool, error) {
	var tx models.LedgerTransaction
	found, err := s.Get(ctx, s.GenerateKey("ledger", "hash", hash), &tx)
	if !found || err != nil {
		return nil, found, err
	}
	return &tx, true, nil
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// GetStats returns connection pool statistics.
func (s *CacheService) GetStats(ctx context.Context) *redis.PoolStats {
	return s.client.PoolStats()
}

// FlushAll clears the cache.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the underlying Redis connection.
func (s *CacheService) Close() error {
	return s.client.Close()
}
