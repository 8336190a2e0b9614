package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"conftix/internal/domain/cart"
	"conftix/internal/infra"
	"conftix/internal/pkg/config"

	"github.com/go-redis/redis/v8"
)

// Store keeps carts in Redis under a prefixed key with a sliding TTL.
// A missing key is an empty cart, not an error.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, cfg config.RedisConfig) *Store {
	return &Store{
		client: client,
		prefix: cfg.KeyPrefix + ":cart:",
		ttl:    cfg.CartTTL,
	}
}

func NewClient(cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, infra.WrapRepoErr("failed to connect to redis", err, infra.KindUnavailable)
	}

	cleanup := func() { _ = client.Close() }
	return client, cleanup, nil
}

func (s *Store) Load(ctx context.Context, token string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.New(token), nil
		}
		return nil, infra.WrapRepoErr("failed to load cart", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, infra.WrapRepoErr("failed to decode cart", err)
	}
	// The key owns the token; the stored copy may predate a rename.
	c.Token = token
	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *cart.Cart) error {
	c.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(c)
	if err != nil {
		return infra.WrapRepoErr("failed to encode cart", err)
	}
	if err := s.client.Set(ctx, s.key(c.Token), data, s.ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to save cart", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return infra.WrapRepoErr("failed to delete cart", err)
	}
	return nil
}

func (s *Store) key(token string) string {
	return s.prefix + token
}
