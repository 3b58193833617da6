package test_utils

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/dlshle/nscache/utils"
)

const (
	assertionFailureError = "assertion failure: "
)

func AssertNil(val interface{}) {
	if val != nil {
		panic(assertionFailureError + fmt.Sprintf("value %v isn't nil", val))
	}
}

func AssertNonNil(val interface{}) {
	if val == nil {
		panic(assertionFailureError + fmt.Sprintf("value %v is nil", val))
	}
}

func AssertStringEmpty(val string) {
	AssertEquals(val, "")
}

func AssertTrue(val bool) {
	if !val {
		panic(assertionFailureError + "value isn't true")
	}
}

func AssertFalse(val bool) {
	if val {
		panic(assertionFailureError + "value isn't false")
	}
}

func AssertPanic(cb func()) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			panic(assertionFailureError + "no panic value is recovered")
		}
	}()
	cb()
}

func AssertEquals[T comparable](l T, r T) {
	if l != r {
		panic(assertionFailureError + fmt.Sprintf("%v and %v are not equal", l, r))
	}
}

// AssertDeepEquals compares slices, maps and structs, reporting a go-cmp diff on mismatch.
func AssertDeepEquals(l interface{}, r interface{}, opts ...cmp.Option) {
	if diff := cmp.Diff(l, r, opts...); diff != "" {
		panic(assertionFailureError + fmt.Sprintf("values differ (-left +right):\n%s", diff))
	}
}

func AssertUnorderedEquals[T comparable](l []T, r []T) {
	AssertEquals(len(l), len(r))
	AssertDeepEquals(utils.TypedSliceToSet(l), utils.TypedSliceToSet(r))
}

func isAssertionFailurePanic(recovered interface{}) bool {
	if panicString, ok := recovered.(string); ok {
		return strings.HasPrefix(panicString, assertionFailureError)
	}
	return false
}
