package cache

import (
	"fmt"
	"time"

	"github.com/dlshle/nscache/logging"
	"github.com/dlshle/nscache/storage"
)

const (
	DefaultNamespace = "default"
	DefaultPrefix    = "cache2_"
	// Unlimited disables the capacity bound.
	Unlimited = -1
)

// Strategy decides what happens when a new key would exceed the capacity bound.
type Strategy string

const (
	// StrategyLimited rejects the new key.
	StrategyLimited Strategy = "limited"
	// StrategyReplaced evicts the valid entry closest to expiry and stores the new key.
	StrategyReplaced Strategy = "replaced"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyLimited, StrategyReplaced:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown max strategy %q", s)
	}
}

type config struct {
	max          int
	strategy     Strategy
	stdTTL       time.Duration
	checkPeriod  time.Duration
	storage      any
	registry     *storage.Registry
	prefix       string
	logger       logging.Logger
	recorder     Recorder
	clock        func() time.Time
	maxListeners int
}

func defaultConfig() *config {
	return &config{
		max:      Unlimited,
		strategy: StrategyLimited,
		prefix:   DefaultPrefix,
		clock:    time.Now,
	}
}

type Option func(*config)

// WithMax bounds the number of entries; Unlimited (-1) disables the bound and 0 rejects
// every new key.
func WithMax(max int) Option {
	return func(c *config) {
		c.max = max
	}
}

func WithMaxStrategy(strategy Strategy) Option {
	return func(c *config) {
		c.strategy = strategy
	}
}

// WithStdTTL sets the TTL applied when a write carries none. 0 means entries never expire.
func WithStdTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.stdTTL = ttl
	}
}

// WithCheckPeriod enables the background sweeper. 0 disables it.
func WithCheckPeriod(period time.Duration) Option {
	return func(c *config) {
		c.checkPeriod = period
	}
}

// WithStorage replaces the in-memory registry storage. The element type must match the cache.
func WithStorage[V any](s storage.Storage[V]) Option {
	return func(c *config) {
		c.storage = s
	}
}

// WithRegistry selects the registry backing the default in-memory storage.
func WithRegistry(registry *storage.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithPrefix sets the prefix of the record key, which is prefix + namespace.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *config) {
		c.recorder = recorder
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithMaxListeners caps the listeners per event kind.
func WithMaxListeners(n int) Option {
	return func(c *config) {
		c.maxListeners = n
	}
}

func (c *config) validate() error {
	if c.max < Unlimited {
		return fmt.Errorf("max must be %d or greater, got %d", Unlimited, c.max)
	}
	if _, err := ParseStrategy(string(c.strategy)); err != nil {
		return err
	}
	if c.stdTTL < 0 {
		return fmt.Errorf("std ttl must not be negative, got %s", c.stdTTL)
	}
	if c.checkPeriod < 0 {
		return fmt.Errorf("check period must not be negative, got %s", c.checkPeriod)
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.logger == nil {
		c.logger = logging.GlobalLogger.WithPrefix("[nscache]").WithWaterMark(logging.INFO)
	}
	if c.recorder == nil {
		c.recorder = noopRecorder{}
	}
	return nil
}
