package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects the server and logical database.
type Options struct {
	Addr     string
	Password string
	DB       int
}

const connectTimeout = 5 * time.Second

// NewRedisClient connects to Redis and checks the link with PING before returning.
// The caller owns the client and must Close it.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}
	if opts.DB < 0 {
		return nil, fmt.Errorf("redis: invalid db index %d", opts.DB)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}
