package retry

import "time"

type RetryOptions struct {
	MaxRetries      int
	Interval        time.Duration
	Backoff         float32
	RetryConditions []func(error) bool
}

type RetryOpt func(*RetryOptions) *RetryOptions

func WithRetryOptions(options *RetryOptions) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		if options == nil {
			return ro
		}
		copied := *options
		return &copied
	}
}

func WithMaxRetries(maxRetries int) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.MaxRetries = maxRetries
		return ro
	}
}

func WithInterval(interval time.Duration) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.Interval = interval
		return ro
	}
}

func WithBackoff(backoff float32) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.Backoff = backoff
		return ro
	}
}

// WithRetryCondition restricts retries to errors accepted by at least one condition.
func WithRetryCondition(condition func(error) bool) RetryOpt {
	return func(ro *RetryOptions) *RetryOptions {
		ro.RetryConditions = append(ro.RetryConditions, condition)
		return ro
	}
}

func validateAndFixRetryOption(cfg *RetryOptions) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 1
	}
}

func isErrorRetryable(cfg *RetryOptions, err error) bool {
	if len(cfg.RetryConditions) == 0 {
		return true
	}
	for _, cond := range cfg.RetryConditions {
		if cond(err) {
			return true
		}
	}
	return false
}

// Retry runs task until it succeeds, returns a non retryable error or runs out of attempts.
// The interval stays constant.
func Retry(task func() error, opts ...RetryOpt) error {
	return RetryWithBackoff(task, append(opts, WithBackoff(1))...)
}

func RetryWithBackoff(task func() error, opts ...RetryOpt) (err error) {
	cfg := &RetryOptions{
		MaxRetries: 1,
		Backoff:    1,
	}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	validateAndFixRetryOption(cfg)
	interval := cfg.Interval
	for i := 0; i < cfg.MaxRetries; i++ {
		if err = task(); err == nil {
			return nil
		}
		if !isErrorRetryable(cfg, err) || i == cfg.MaxRetries-1 {
			return err
		}
		if interval > 0 {
			time.Sleep(interval)
		}
		interval = time.Duration(float32(interval) * cfg.Backoff)
	}
	return
}

func Retry1[T any](task func() (T, error), opts ...RetryOpt) (T, error) {
	return RetryWithBackoff1(task, append(opts, WithBackoff(1))...)
}

func RetryWithBackoff1[T any](task func() (T, error), opts ...RetryOpt) (res T, err error) {
	t := func() error {
		res, err = task()
		return err
	}
	err = RetryWithBackoff(t, opts...)
	return
}
