package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Provider is a JSON cache. Every method is a no-op when the backend is unavailable.
type Provider interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type Config struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

type redisImpl struct {
	client            *redis.Client
	warnedUnavailable atomic.Bool
}

// NewRedis returns a bypassing cache when Redis is not configured or does not answer a ping.
func NewRedis(ctx context.Context, cfg Config) Provider {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			log.WithError(err).Warn("redis url is invalid, bypassing cache")
			return &redisImpl{}
		}
		opts = parsed
	case cfg.Addr != "":
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	default:
		log.Info("redis is not configured, bypassing cache")
		return &redisImpl{}
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, bypassing cache")
		_ = client.Close()
		return &redisImpl{}
	}
	log.Info("redis cache connected")
	return &redisImpl{client: client}
}

func (r *redisImpl) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *redisImpl) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		log.WithError(err).Warn("redis request failed, bypassing cache")
	}
}

func (r *redisImpl) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *redisImpl) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err = json.Unmarshal(b, out); err != nil {
		return false, errors.Wrap(err, "cache value decode error")
	}
	return true, nil
}

func (r *redisImpl) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache value encode error")
	}
	if err = r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *redisImpl) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}
