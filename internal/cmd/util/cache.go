package util

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/dlshle/nscache/cache"
	"github.com/dlshle/nscache/logging"
	"github.com/dlshle/nscache/retry"
	"github.com/dlshle/nscache/storage"
	"github.com/dlshle/nscache/utils"
)

const redisKeyPrefix = "nscache:"

// OpenCache builds a string cache over the backend selected by the persistent flags. The
// returned closer stops the cache and releases the backend.
func OpenCache(flags *pflag.FlagSet, logOutput io.Writer) (c *cache.Cache[string], closer func() error, err error) {
	var (
		dir, redisAddr, namespace, prefix, strategy, codecName string
		stdTTL                                                 time.Duration
		maxEntries                                             int
		logJSON                                                bool
		codec                                                  storage.Codec[string]
		backend                                                storage.Backend
	)
	err = utils.ProcessWithErrors(func() (err error) {
		dir, err = flags.GetString("dir")
		return
	}, func() (err error) {
		redisAddr, err = flags.GetString("redis")
		return
	}, func() (err error) {
		namespace, err = flags.GetString("namespace")
		return
	}, func() (err error) {
		prefix, err = flags.GetString("prefix")
		return
	}, func() (err error) {
		stdTTL, err = flags.GetDuration("std-ttl")
		return
	}, func() (err error) {
		maxEntries, err = flags.GetInt("max")
		return
	}, func() (err error) {
		strategy, err = flags.GetString("strategy")
		return
	}, func() (err error) {
		logJSON, err = flags.GetBool("log-json")
		return
	}, func() (err error) {
		codecName, err = flags.GetString("codec")
		if err != nil {
			return
		}
		codec, err = newCodec(codecName)
		return
	})
	if err != nil {
		return nil, nil, err
	}
	maxStrategy, err := cache.ParseStrategy(strategy)
	if err != nil {
		return nil, nil, err
	}
	if redisAddr != "" {
		backend, err = storage.DialRedis(redisAddr, "", 0, redisKeyPrefix)
	} else {
		backend, err = storage.NewBadgerBackend(dir)
	}
	if err != nil {
		return nil, nil, err
	}
	s := storage.NewCodecStorage[string](backend, codec,
		retry.WithMaxRetries(3),
		retry.WithInterval(50*time.Millisecond),
		retry.WithBackoff(2))
	c, err = cache.New[string](namespace,
		cache.WithStorage[string](s),
		cache.WithPrefix(prefix),
		cache.WithStdTTL(stdTTL),
		cache.WithMax(maxEntries),
		cache.WithMaxStrategy(maxStrategy),
		cache.WithLogger(newLogger(logOutput, logJSON)))
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return c, func() error {
		c.Close()
		return s.Close()
	}, nil
}

func newLogger(w io.Writer, asJSON bool) logging.Logger {
	if asJSON {
		return logging.CreateLevelLogger(logging.NewlineSeparatedJSONWriter(w), "[nscache]", logging.WARN)
	}
	return logging.NewLevelLogger(w, "[nscache]", logging.WARN)
}

func newCodec(name string) (storage.Codec[string], error) {
	switch name {
	case "json":
		return storage.JSONCodec[string]{}, nil
	case "wire":
		return storage.NewWireCodec[string](storage.StringValueCodec{}), nil
	default:
		return nil, fmt.Errorf("unknown codec %q, expected json or wire", name)
	}
}
