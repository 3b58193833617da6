package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

type stack []uintptr

func (s *stack) Format() string {
	frames := runtime.CallersFrames(*s)
	var b strings.Builder
	for {
		frame, more := frames.Next()
		b.WriteRune('\n')
		b.WriteString(frame.Function)
		b.WriteRune('\n')
		b.WriteRune('\t')
		b.WriteString(frame.File)
		b.WriteRune(':')
		b.WriteString(strconv.Itoa(frame.Line))
		if !more {
			break
		}
	}
	return b.String()
}

// TrackableError carries the stack of the place it was created at.
type TrackableError struct {
	err        error
	stacktrace *stack
}

func (q *TrackableError) Error() string {
	return q.err.Error()
}

// Detailed returns the message followed by the captured stacktrace.
func (q *TrackableError) Detailed() string {
	return fmt.Sprintf("original error: %s\nstacktrace:%s", q.err.Error(), q.stacktrace.Format())
}

func (q *TrackableError) Stacktrace() string {
	return q.stacktrace.Format()
}

func (q *TrackableError) Unwrap() error {
	return q.err
}

func Error(msg string) *TrackableError {
	return newTrackableErr(errors.New(msg), stacktraceWithDepth(32, 1))
}

func newTrackableErr(err error, stacktrace *stack) *TrackableError {
	return &TrackableError{
		err:        err,
		stacktrace: stacktrace,
	}
}

func stacktraceWithDepth(depth int, frameSkips int) *stack {
	pcs := make([]uintptr, depth)
	n := runtime.Callers(frameSkips+2, pcs[:]) // skip runtime.Callers and stacktraceWithDepth
	var st stack = pcs[:n]
	return &st
}

func StackTrace(frameSkips int) string {
	return stacktraceWithDepth(32, frameSkips+1).Format()
}

// Errorf supports %w, so the wrapped error stays reachable through errors.Is/As.
func Errorf(formatter string, fields ...any) *TrackableError {
	return newTrackableErr(fmt.Errorf(formatter, fields...), stacktraceWithDepth(32, 1))
}

func ErrorWith(errMsgs ...string) *TrackableError {
	return newTrackableErr(errors.New(strings.Join(errMsgs, ";")), stacktraceWithDepth(32, 1))
}

// WrapWithStackTrace returns nil for a nil error and leaves an existing TrackableError untouched.
func WrapWithStackTrace(err error) *TrackableError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TrackableError); ok {
		return te
	}
	return newTrackableErr(err, stacktraceWithDepth(32, 1))
}

// AsTrackable finds a TrackableError in err's chain, wrapping err when there is none.
func AsTrackable(err error) *TrackableError {
	var te *TrackableError
	if errors.As(err, &te) {
		return te
	}
	return newTrackableErr(err, stacktraceWithDepth(32, 1))
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
