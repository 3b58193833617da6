package cache

import (
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dlshle/nscache/test_utils"
)

func TestGetWithLoader(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache[string](t, clock)
	errLoad := stderrors.New("load failed")
	test_utils.NewGroup("loader", "read-through loading").Cases(test_utils.New("loads and stores a missing key", func() {
		v, err := c.GetWithLoader("k", func(key string) (string, error) {
			return "loaded-" + key, nil
		})
		test_utils.AssertNil(err)
		test_utils.AssertEquals(v, "loaded-k")
		cached, ok := c.Get("k")
		test_utils.AssertTrue(ok)
		test_utils.AssertEquals(cached, "loaded-k")
	}), test_utils.New("cached keys skip the loader", func() {
		v, err := c.GetWithLoader("k", func(string) (string, error) {
			panic("loader must not run")
		})
		test_utils.AssertNil(err)
		test_utils.AssertEquals(v, "loaded-k")
	}), test_utils.New("loader errors are returned and nothing is stored", func() {
		_, err := c.GetWithLoader("bad", func(string) (string, error) {
			return "", errLoad
		})
		test_utils.AssertTrue(stderrors.Is(err, errLoad))
		test_utils.AssertFalse(c.Has("bad"))
	}), test_utils.New("ttl variant", func() {
		_, err := c.GetWithLoaderAndTTL("short", func(string) (string, error) {
			return "x", nil
		}, time.Second)
		test_utils.AssertNil(err)
		expiresAt, ok := c.GetTTL("short")
		test_utils.AssertTrue(ok)
		test_utils.AssertTrue(expiresAt.Equal(clock.Now().Add(time.Second)))
	}), test_utils.New("concurrent loads share one call", func() {
		var (
			calls   atomic.Int32
			release = make(chan struct{})
			wg      sync.WaitGroup
		)
		loader := func(string) (string, error) {
			calls.Add(1)
			<-release
			return "shared", nil
		}
		results := make([]string, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = c.GetWithLoader("hot", loader)
			}(i)
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()
		test_utils.AssertEquals(calls.Load(), int32(1))
		for _, r := range results {
			test_utils.AssertEquals(r, "shared")
		}
	})).Do(t)
}
