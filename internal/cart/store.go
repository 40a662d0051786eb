// Package cart implements the session-scoped shopping cart: Redis-backed
// storage, pure aggregation into per-vendor totals, and the mutation
// operations exposed over HTTP.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/config"
	"github.com/vendormarket/checkout-service/internal/models"
)

const (
	cartKeyPrefix  = "cart:"
	defaultCartTTL = 72 * time.Hour
)

// Store persists carts between requests. Get returns (nil, nil) when the
// customer has no cart. Concurrent sessions are last-write-wins; checkout's
// mandatory validation pass catches the staleness that can produce.
type Store interface {
	Get(ctx context.Context, customerID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, customerID string) error
}

// RedisStore implements Store on Redis with a session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(cfg config.RedisConfig, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.CartTTL
	if ttl == 0 {
		ttl = defaultCartTTL
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.Named("cart-store"),
	}
}

// Get retrieves a customer's cart.
func (s *RedisStore) Get(ctx context.Context, customerID string) (*models.Cart, error) {
	key := cartKeyPrefix + customerID

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		s.logger.Debug("Cart miss", zap.String("customer_id", customerID))
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Cart get error",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// Save stores a cart, refreshing its session TTL.
func (s *RedisStore) Save(ctx context.Context, cart *models.Cart) error {
	key := cartKeyPrefix + cart.CustomerID

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Error("Cart save error",
			zap.String("customer_id", cart.CustomerID),
			zap.Error(err))
		return err
	}

	s.logger.Debug("Cart saved",
		zap.String("customer_id", cart.CustomerID),
		zap.Int("items", len(cart.Items)))
	return nil
}

// Delete removes a customer's cart.
func (s *RedisStore) Delete(ctx context.Context, customerID string) error {
	key := cartKeyPrefix + customerID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Cart delete error",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return err
	}

	s.logger.Debug("Cart deleted", zap.String("customer_id", customerID))
	return nil
}
