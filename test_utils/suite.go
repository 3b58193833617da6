package test_utils

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
)

type stepKind int

const (
	groupStep stepKind = iota
	caseStep
	operationStep
)

// assertion is one step of a chain: a group header, an asserted case or a plain operation.
// Every step of a chain points at the same head so Do can start from any of them.
type assertion struct {
	head        *assertion
	next        *assertion
	id          string
	description string
	kind        stepKind
	fn          func()
	numRuns     int
	parallel    bool
}

type Assertable interface {
	Cases(cases ...*assertion) Assertable
	Concurrently(id string, desc string, actions ...func()) Assertable
	Then(id string, assertion func()) Assertable
	// WithMultipleRuns repeats the last step numRuns times, in parallel or in series.
	WithMultipleRuns(numRuns int, parallel bool) Assertable
	Do(t *testing.T)
}

func New(id string, assertionCase func()) *assertion {
	a := &assertion{id: id, kind: caseStep, fn: assertionCase}
	a.head = a
	return a
}

func NewGroup(id string, description string) Assertable {
	a := &assertion{id: id, description: description, kind: groupStep}
	a.head = a
	return a
}

func (a *assertion) append(next *assertion) *assertion {
	next.head = a.head
	a.next = next
	return next
}

func (a *assertion) Cases(cases ...*assertion) Assertable {
	curr := a
	for _, c := range cases {
		if c != nil {
			curr = curr.append(c)
		}
	}
	return curr
}

func (a *assertion) Then(id string, assertionCase func()) Assertable {
	return a.append(&assertion{id: id, kind: caseStep, fn: assertionCase})
}

// Concurrently runs actions in their own goroutines and waits for all of them. An assertion
// failure in any action fails the step.
func (a *assertion) Concurrently(id string, desc string, actions ...func()) Assertable {
	run := func() {
		var (
			wg       sync.WaitGroup
			hasPanic atomic.Bool
		)
		panics := make([]interface{}, len(actions))
		for i, action := range actions {
			wg.Add(1)
			go func(i int, action func()) {
				defer wg.Done()
				defer func() {
					if recovered := recover(); recovered != nil {
						panics[i] = recovered
						hasPanic.Store(true)
					}
				}()
				action()
			}(i, action)
		}
		wg.Wait()
		if !hasPanic.Load() {
			return
		}
		for _, p := range panics {
			if isAssertionFailurePanic(p) {
				panic(p)
			}
		}
		panic(fmt.Sprintf("%v", panics))
	}
	return a.append(&assertion{id: id, description: desc, kind: operationStep, fn: run})
}

func (a *assertion) WithMultipleRuns(numRuns int, parallel bool) Assertable {
	if numRuns < 1 {
		numRuns = 1
	}
	a.numRuns = numRuns
	a.parallel = parallel
	return a
}

func (a *assertion) Do(t *testing.T) {
	startTime := time.Now()
	indent := 0
	for curr := a.head; curr != nil; curr = curr.next {
		switch curr.kind {
		case groupStep:
			t.Logf("%sRunning group %s%s", indentation(indent), curr.id, curr.label())
			indent += 2
		case operationStep:
			t.Logf("%sRunning operation %s%s", indentation(indent), curr.id, curr.label())
			curr.repeat(t, indent, func(int) bool {
				curr.fn()
				return true
			})
		case caseStep:
			t.Logf("%sRunning case %s%s", indentation(indent), curr.id, curr.label())
			curr.repeat(t, indent, func(indent int) bool {
				return runCase(t, indent, curr.id, curr.fn)
			})
		}
	}
	t.Log("All test finished, overall runtime: ", time.Since(startTime))
}

func (a *assertion) repeat(t *testing.T, indent int, run func(indent int) bool) {
	if a.numRuns <= 1 {
		run(indent)
		return
	}
	mode := "in series"
	if a.parallel {
		mode = "in parallel"
	}
	t.Logf("%sRun [%s] %s %d times", indentation(indent), a.id, mode, a.numRuns)
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < a.numRuns; i++ {
		if !a.parallel {
			if run(indent + 4) {
				succeeded.Add(1)
			}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if run(indent + 4) {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()
	t.Logf("%sSuccess rate of [%s]: %d/%d", indentation(indent), a.id, succeeded.Load(), a.numRuns)
}

func runCase(t *testing.T, indent int, id string, fn func()) (passed bool) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			passed = true
			t.Logf("%s✅ %s passed", indentation(indent), id)
			return
		}
		message := "panic recovered, call stack trace: \n" + callers()
		if isAssertionFailurePanic(recovered) {
			message = recovered.(string)
		}
		t.Errorf("%s❌ %s failed", indentation(indent), id)
		t.Error(colorRed + message + colorReset)
	}()
	fn()
	return true
}

func (a *assertion) label() string {
	if a.description == "" {
		return ""
	}
	return "[" + a.description + "]"
}

func indentation(level int) string {
	return strings.Repeat(" ", level)
}

func callers() string {
	var b strings.Builder
	for i := 0; ; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fmt.Fprintf(&b, "%s%v:%v\n", indentation(i*2), file, line)
	}
	return b.String()
}
