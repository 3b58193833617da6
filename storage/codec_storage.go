package storage

import (
	"github.com/dlshle/nscache/errors"
	"github.com/dlshle/nscache/retry"
)

// CodecStorage adapts a byte Backend into a Storage by running tables through a Codec.
// Backend reads and writes are retried with the given options; a missing record is not
// an error and is never retried.
type CodecStorage[V any] struct {
	backend   Backend
	codec     Codec[V]
	retryOpts []retry.RetryOpt
}

// NewCodecStorage defaults to JSONCodec when codec is nil. Without retry options every
// call is attempted once.
func NewCodecStorage[V any](backend Backend, codec Codec[V], opts ...retry.RetryOpt) *CodecStorage[V] {
	if codec == nil {
		codec = JSONCodec[V]{}
	}
	if len(opts) == 0 {
		opts = []retry.RetryOpt{retry.WithMaxRetries(1)}
	}
	return &CodecStorage[V]{
		backend:   backend,
		codec:     codec,
		retryOpts: opts,
	}
}

func (s *CodecStorage[V]) Get(key string) (*Table[V], error) {
	var (
		data  []byte
		found = true
	)
	err := retry.RetryWithBackoff(func() error {
		d, err := s.backend.Get(key)
		if errors.Is(err, ErrNotFound) {
			found = false
			return nil
		}
		data = d
		return err
	}, s.retryOpts...)
	if err != nil {
		return nil, errors.Errorf("read record %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	table, err := s.codec.Decode(data)
	if err != nil {
		return nil, errors.Errorf("decode record %s: %w: %w", key, ErrMalformedRecord, err)
	}
	return table, nil
}

func (s *CodecStorage[V]) Set(key string, table *Table[V]) error {
	data, err := s.codec.Encode(table)
	if err != nil {
		return errors.Errorf("encode record %s: %w", key, err)
	}
	err = retry.RetryWithBackoff(func() error {
		return s.backend.Set(key, data)
	}, s.retryOpts...)
	if err != nil {
		return errors.Errorf("write record %s: %w", key, err)
	}
	return nil
}

func (s *CodecStorage[V]) Del(key string) error {
	err := retry.RetryWithBackoff(func() error {
		err := s.backend.Delete(key)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}, s.retryOpts...)
	if err != nil {
		return errors.Errorf("delete record %s: %w", key, err)
	}
	return nil
}

func (s *CodecStorage[V]) Clear() error {
	if err := s.backend.Clear(); err != nil {
		return errors.WrapWithStackTrace(err)
	}
	return nil
}

func (s *CodecStorage[V]) Close() error {
	if err := s.backend.Close(); err != nil {
		return errors.WrapWithStackTrace(err)
	}
	return nil
}
