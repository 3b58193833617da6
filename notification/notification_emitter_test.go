package notification

import (
	"sync/atomic"
	"testing"

	"github.com/dlshle/nscache/test_utils"
)

func TestNotificationEmitter(t *testing.T) {
	emitter := New[string](10)
	test_utils.NewGroup("notification emitter", "notification emitter tests").Cases(
		test_utils.New("sync notification listeners", func() {
			var counter int32 = 0
			incrementCounter := func(s string) {
				atomic.AddInt32(&counter, 1)
			}
			disposer, err := emitter.On("test", incrementCounter)
			disposer1, err1 := emitter.On("test", incrementCounter)
			test_utils.AssertNil(err)
			test_utils.AssertNil(err1)
			test_utils.AssertTrue(emitter.HasEvent("test"))
			test_utils.AssertEquals(emitter.MessageListenerCount("test"), 2)
			emitter.Notify("test", "hello")
			disposer1()
			emitter.Notify("test", "hello")
			disposer()
			emitter.Notify("test", "hello")
			test_utils.AssertEquals(atomic.LoadInt32(&counter), int32(3))
			test_utils.AssertFalse(emitter.HasEvent("test"))
		}),
		test_utils.New("listeners run in registration order", func() {
			var order []int
			for i := 0; i < 5; i++ {
				i := i
				_, err := emitter.On("ordered", func(string) { order = append(order, i) })
				test_utils.AssertNil(err)
			}
			emitter.Notify("ordered", "x")
			test_utils.AssertDeepEquals(order, []int{0, 1, 2, 3, 4})
			emitter.OffAll("ordered")
		}),
		test_utils.New("a panicking listener reaches the caller", func() {
			var after int32
			emitter.On("panics", func(string) { panic("listener failed") })
			emitter.On("panics", func(string) { atomic.AddInt32(&after, 1) })
			test_utils.AssertPanic(func() {
				emitter.Notify("panics", "x")
			})
			test_utils.AssertEquals(atomic.LoadInt32(&after), int32(0))
			emitter.OffAll("panics")
		}),
		test_utils.New("once listeners fire a single time each", func() {
			var a, b int32
			_, err := emitter.Once("once", func(s string) { atomic.AddInt32(&a, 1) })
			test_utils.AssertNil(err)
			_, err = emitter.Once("once", func(s string) { atomic.AddInt32(&b, 1) })
			test_utils.AssertNil(err)
			emitter.Notify("once", "x")
			emitter.Notify("once", "y")
			test_utils.AssertEquals(atomic.LoadInt32(&a), int32(1))
			test_utils.AssertEquals(atomic.LoadInt32(&b), int32(1))
			test_utils.AssertFalse(emitter.HasEvent("once"))
		}),
		test_utils.New("disposed once listener never fires", func() {
			var fired int32
			dispose, _ := emitter.Once("once", func(s string) { atomic.AddInt32(&fired, 1) })
			dispose()
			emitter.Notify("once", "x")
			test_utils.AssertEquals(atomic.LoadInt32(&fired), int32(0))
		}),
		test_utils.New("off all and listener limit", func() {
			small := New[int](1)
			_, err := small.On("e", func(int) {})
			test_utils.AssertNil(err)
			_, err = small.On("e", func(int) {})
			test_utils.AssertNonNil(err)
			small.OffAll("e")
			test_utils.AssertFalse(small.HasEvent("e"))
			_, err = small.On("e", func(int) {})
			test_utils.AssertNil(err)
		}),
	).Do(t)
}
