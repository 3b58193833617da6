package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/dlshle/nscache/test_utils"
)

var errSentinel = errors.New("sentinel")

func TestTrackableError(t *testing.T) {
	test_utils.NewGroup("errors", "trackable and multi errors").Cases(
		test_utils.New("wrapped sentinel is still matchable", func() {
			err := Errorf("loading %s: %w", "ns", errSentinel)
			test_utils.AssertTrue(Is(err, errSentinel))
			test_utils.AssertEquals(err.Error(), "loading ns: sentinel")
			test_utils.AssertTrue(strings.Contains(err.Detailed(), "stacktrace"))
		}),
		test_utils.New("wrap keeps nil and existing trackable errors", func() {
			test_utils.AssertTrue(WrapWithStackTrace(nil) == nil)
			te := Error("boom")
			test_utils.AssertTrue(WrapWithStackTrace(te) == te)
			test_utils.AssertTrue(AsTrackable(te) == te)
			test_utils.AssertTrue(Is(AsTrackable(errSentinel), errSentinel))
		}),
		test_utils.New("multi error collects non nil errors", func() {
			me := NewMultiError()
			test_utils.AssertNil(me.ErrorOrNil())
			me.AddIfNonNil(nil)
			me.AddIfNonNil(errors.New("a"))
			me.Add(errors.New("b"))
			test_utils.AssertEquals(me.Size(), 2)
			test_utils.AssertEquals(me.Error(), "a\nb")
			test_utils.AssertNonNil(me.ErrorOrNil())
		}),
	).Do(t)
}
