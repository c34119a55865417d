package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientConfig carries the connection settings for the lock client. The slot
// lock issues short point commands only, so timeouts stay tight.
type ClientConfig struct {
	Addr     string
	Username string
	Password string
	PoolSize int
}

func NewRedisClient(ctx context.Context, cc ClientConfig) (*redis.Client, error) {
	poolSize := cc.PoolSize
	if poolSize < 1 {
		poolSize = 8
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cc.Addr,
		Username:     cc.Username,
		Password:     cc.Password,
		DB:           0,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     poolSize,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}
