// Package storage is the console's durable key/value storage for the signed-in session.
// Every driver stores plain string entries; the session store decides what they mean.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Entry is one named string value.
type Entry struct {
	Key   string
	Value string
}

// Store persists string entries. Put and Delete apply all given entries together where
// the backend supports it.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, entries ...Entry) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Driver names accepted by the console configuration.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ValidateDriver normalises and checks a driver name.
func ValidateDriver(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case DriverMemory, DriverFile, DriverRedis, DriverSQLite, DriverPostgres:
		return name, nil
	case "":
		return DriverFile, nil
	default:
		return "", fmt.Errorf("storage: unknown driver %q", name)
	}
}
