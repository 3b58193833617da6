// Package gr_context keeps values scoped to the calling goroutine.
package gr_context

import (
	"strconv"
	"strings"
	"sync"

	"github.com/petermattis/goid"
)

const sep = "#"

var (
	lock    sync.RWMutex
	context = map[string]interface{}{}
)

func Put(key string, v interface{}) {
	lock.Lock()
	defer lock.Unlock()
	context[scopedKey(key)] = v
}

func Get(key string) interface{} {
	lock.RLock()
	defer lock.RUnlock()
	return context[scopedKey(key)]
}

func Delete(key string) {
	lock.Lock()
	defer lock.Unlock()
	delete(context, scopedKey(key))
}

// GetByPrefix returns every value of the calling goroutine whose key starts with prefix.
// Returned keys do not carry the goroutine scope.
func GetByPrefix(prefix string) map[string]interface{} {
	scope := goroutineScope()
	res := make(map[string]interface{})
	lock.RLock()
	defer lock.RUnlock()
	for k, v := range context {
		if strings.HasPrefix(k, scope+prefix) {
			res[k[len(scope):]] = v
		}
	}
	return res
}

func ClearByPrefix(prefix string) {
	scope := goroutineScope()
	lock.Lock()
	defer lock.Unlock()
	for k := range context {
		if strings.HasPrefix(k, scope+prefix) {
			delete(context, k)
		}
	}
}

func Clear() {
	ClearByPrefix("")
}

func scopedKey(key string) string {
	return goroutineScope() + key
}

func goroutineScope() string {
	return strconv.FormatInt(goid.Get(), 10) + sep
}
