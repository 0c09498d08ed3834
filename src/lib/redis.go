package lib

import (
	"context"
	"log"
	"time"

	"pgme/src/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func InitRedis(cfg *config.Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

func GetRedisClient() *redis.Client {
	return redisClient
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// IntentCache remembers which booking a processor payment intent was
// created for, between the create and execute phases. The association is
// ephemeral and best-effort: losing it only means the executed payment is
// recorded without a booking link.
type IntentCache interface {
	SetBookingRef(ctx context.Context, paymentID, bookingID string) error
	GetBookingRef(ctx context.Context, paymentID string) (string, error)
}

const intentTTL = 24 * time.Hour

type redisIntentCache struct{}

func (redisIntentCache) SetBookingRef(ctx context.Context, paymentID, bookingID string) error {
	rd := GetRedisClient()
	if rd == nil {
		return redis.ErrClosed
	}
	return rd.Set(ctx, "paypal:intent:"+paymentID, bookingID, intentTTL).Err()
}

func (redisIntentCache) GetBookingRef(ctx context.Context, paymentID string) (string, error) {
	rd := GetRedisClient()
	if rd == nil {
		return "", redis.ErrClosed
	}
	val, err := rd.Get(ctx, "paypal:intent:"+paymentID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

var intentCache IntentCache = redisIntentCache{}

func GetIntentCache() IntentCache {
	return intentCache
}

// NewIntentCache replaces the intent cache with a custom implementation
func NewIntentCache(c IntentCache) IntentCache {
	intentCache = c
	return intentCache
}
