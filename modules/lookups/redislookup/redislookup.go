// Package redislookup implements a lookup component backed by a Redis
// string keyspace: each template call's key is a Redis GET.
package redislookup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/registry"
)

// callTimeout bounds a single lookup's Redis round-trip so a stalled
// connection cannot block the consumer task indefinitely.
const callTimeout = 2 * time.Second

// New satisfies registry.LookupFactory. Recognized arguments: "addr"
// (default "localhost:6379"), "password", "db" (int, default 0), "prefix"
// (prepended to every lookup key).
func New(instanceName string, args registry.Args) (actor.LookupFunc, error) {
	addr, _ := args["addr"].(string)
	if addr == "" {
		addr = "localhost:6379"
	}
	password, _ := args["password"].(string)
	db, _ := args["db"].(int)
	prefix, _ := args["prefix"].(string)

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	return func(key string) (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		val, err := client.Get(ctx, prefix+key).Result()
		if err == redis.Nil {
			return nil, fmt.Errorf("redis lookup %q: no value for key %q", instanceName, key)
		}
		if err != nil {
			return nil, fmt.Errorf("redis lookup %q: %w", instanceName, err)
		}
		return val, nil
	}, nil
}
