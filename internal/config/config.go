package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	RedisAddr       string
	PolicyCacheSize int
	PolicyCacheTTL  time.Duration
	CompactInterval time.Duration
	CompactBatch    int
	WorkerPoolSize  int
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultPolicyCacheSize = 1024
	defaultPolicyCacheTTL  = 5 * time.Minute
	defaultCompactInterval = time.Minute
	defaultCompactBatch    = 32
	defaultWorkerPoolSize  = 4
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		RedisAddr:       getString(lookup, "REDIS_ADDR", ""),
		PolicyCacheSize: getInt(lookup, "POLICY_CACHE_SIZE", defaultPolicyCacheSize),
		PolicyCacheTTL:  getDuration(lookup, "POLICY_CACHE_TTL", defaultPolicyCacheTTL),
		CompactInterval: getDuration(lookup, "COMPACT_INTERVAL", defaultCompactInterval),
		CompactBatch:    getInt(lookup, "COMPACT_BATCH_SIZE", defaultCompactBatch),
		WorkerPoolSize:  getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("rewardmart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cacheTTLStr        = cfg.PolicyCacheTTL.String()
		compactIntervalStr = cfg.CompactInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the policy cache, empty for in-process LRU")
	fs.IntVar(&cfg.PolicyCacheSize, "cache-size", cfg.PolicyCacheSize, "Maximum entries in the in-process policy cache")
	fs.StringVar(&cacheTTLStr, "cache-ttl", cacheTTLStr, "Policy cache entry lifetime")
	fs.StringVar(&compactIntervalStr, "compact-interval", compactIntervalStr, "Interval between ledger compaction sweeps")
	fs.IntVar(&cfg.CompactBatch, "compact-batch", cfg.CompactBatch, "Maximum customers per compaction sweep")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent compaction workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PolicyCacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}

	if cfg.CompactInterval, err = time.ParseDuration(compactIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid compact interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.PolicyCacheSize <= 0 {
		cfg.PolicyCacheSize = defaultPolicyCacheSize
	}

	if cfg.PolicyCacheTTL <= 0 {
		cfg.PolicyCacheTTL = defaultPolicyCacheTTL
	}

	if cfg.CompactInterval <= 0 {
		cfg.CompactInterval = defaultCompactInterval
	}

	if cfg.CompactBatch <= 0 {
		cfg.CompactBatch = defaultCompactBatch
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
