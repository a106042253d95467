package client

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

type cacheEnv struct {
	// RedisAddr selects the shared Redis cache backend. Empty keeps the
	// in-process map.
	RedisAddr string        `env:"REDIS_ADDR"`
	Prefix    string        `env:"PREFIX" envDefault:"roi:"`
	TTL       time.Duration `env:"TTL" envDefault:"5m"`
}

// OptionsFromEnv builds client options from CACHE_-prefixed environment
// variables. CACHE_REDIS_ADDR picks a Redis-backed cache; when unset the
// default in-memory cache is used.
func OptionsFromEnv() (Options, error) {
	var cfg cacheEnv
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CACHE_"}); err != nil {
		return Options{}, err
	}

	opts := Options{TTL: cfg.TTL}
	if cfg.RedisAddr != "" {
		opts.Cache = NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.Prefix)
	}
	return opts, nil
}
