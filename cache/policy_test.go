package cache

import (
	"testing"
	"time"

	"github.com/dlshle/nscache/storage"
	"github.com/dlshle/nscache/test_utils"
)

func TestComputeExpiry(t *testing.T) {
	tests := []struct {
		name   string
		ttl    *time.Duration
		stdTTL time.Duration
		want   int64
	}{
		{"explicit ttl", TTL(1500 * time.Millisecond), 0, 11500},
		{"std ttl", nil, 5 * time.Second, 15000},
		{"explicit zero overrides std ttl", TTL(0), 5 * time.Second, 0},
		{"no ttl", nil, 0, 0},
		{"negative ttl never expires", TTL(-time.Second), 0, 0},
		{"sub millisecond ttl lasts one millisecond", TTL(500 * time.Microsecond), 0, 10001},
		{"sub millisecond std ttl lasts one millisecond", nil, time.Nanosecond, 10001},
		{"fractional milliseconds truncate", TTL(1500 * time.Microsecond), 0, 10001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test_utils.AssertEquals(computeExpiry(10000, tt.ttl, tt.stdTTL), tt.want)
		})
	}
}

func TestIsValid(t *testing.T) {
	test_utils.AssertTrue(isValid(storage.Entry[int]{ExpiresAt: 0}, 100))
	test_utils.AssertTrue(isValid(storage.Entry[int]{ExpiresAt: 101}, 100))
	test_utils.AssertFalse(isValid(storage.Entry[int]{ExpiresAt: 100}, 100))
	test_utils.AssertFalse(isValid(storage.Entry[int]{ExpiresAt: 99}, 100))
}

func TestEvictionCandidate(t *testing.T) {
	build := func(entries ...storage.Entry[int]) (*storage.Table[int], []string) {
		table := storage.NewTable[int]()
		keys := make([]string, 0, len(entries))
		for i, e := range entries {
			key := string(rune('a' + i))
			table.Put(key, e)
			keys = append(keys, key)
		}
		return table, keys
	}
	test_utils.NewGroup("eviction candidate", "ranking of valid entries").Cases(test_utils.New("soonest expiry wins", func() {
		table, keys := build(
			storage.Entry[int]{ExpiresAt: 3000, LastModified: 1},
			storage.Entry[int]{ExpiresAt: 2000, LastModified: 2},
			storage.Entry[int]{ExpiresAt: 2500, LastModified: 0},
		)
		victim, ok := evictionCandidate(table, keys)
		test_utils.AssertTrue(ok)
		test_utils.AssertEquals(victim, "b")
	}), test_utils.New("permanent entries rank last", func() {
		table, keys := build(
			storage.Entry[int]{ExpiresAt: 0, LastModified: 0},
			storage.Entry[int]{ExpiresAt: 9000, LastModified: 5},
		)
		victim, _ := evictionCandidate(table, keys)
		test_utils.AssertEquals(victim, "b")
	}), test_utils.New("equal expiry goes to the earliest write", func() {
		table, keys := build(
			storage.Entry[int]{ExpiresAt: 0, LastModified: 7},
			storage.Entry[int]{ExpiresAt: 0, LastModified: 3},
			storage.Entry[int]{ExpiresAt: 0, LastModified: 5},
		)
		victim, _ := evictionCandidate(table, keys)
		test_utils.AssertEquals(victim, "b")
	}), test_utils.New("full tie goes to insertion order", func() {
		table, keys := build(
			storage.Entry[int]{ExpiresAt: 100, LastModified: 1},
			storage.Entry[int]{ExpiresAt: 100, LastModified: 1},
		)
		victim, _ := evictionCandidate(table, keys)
		test_utils.AssertEquals(victim, "a")
	}), test_utils.New("no keys", func() {
		_, ok := evictionCandidate(storage.NewTable[int](), nil)
		test_utils.AssertFalse(ok)
	})).Do(t)
}
