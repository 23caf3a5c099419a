package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IRedis holds the capture lease: one live lease per client means at most one
// recording session per client, across all server replicas.
type IRedis interface {
	AcquireLease(ctx context.Context, key string, owner string, expiration time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, key string, owner string) error
	GetLeaseOwner(ctx context.Context, key string) (string, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) AcquireLease(ctx context.Context, key string, owner string, expiration time.Duration) (bool, error) {
	logrus.Debug(fmt.Sprintf("Acquiring lease %s for %s with expiration %v", key, owner, expiration))
	ok, err := r.client.SetNX(ctx, key, owner, expiration).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error acquiring lease %s: %v", key, err))
		return false, err
	}
	return ok, nil
}

func (r *redisClient) ReleaseLease(ctx context.Context, key string, owner string) error {
	current, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading lease %s: %v", key, err))
		return err
	}

	// Only the holder may release; an expired-and-reacquired lease belongs
	// to someone else.
	if current != owner {
		logrus.Warn(fmt.Sprintf("Lease %s is held by another owner, not releasing", key))
		return nil
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error releasing lease %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetLeaseOwner(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting lease %s: %v", key, err))
		return "", err
	}
	return val, nil
}
