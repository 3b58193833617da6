package cache

import (
	"math"

	"github.com/dlshle/nscache/storage"
)

// expiryRank orders entries by how soon they expire; entries that never expire rank last.
func expiryRank[V any](e storage.Entry[V]) int64 {
	if e.ExpiresAt == 0 {
		return math.MaxInt64
	}
	return e.ExpiresAt
}

// evictionCandidate picks, among keys, the entry expiring soonest. Ties go to the earliest
// write, then to the earliest inserted key. keys must all be present in table.
func evictionCandidate[V any](table *storage.Table[V], keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	victim := keys[0]
	ve, _ := table.Get(victim)
	for _, k := range keys[1:] {
		e, _ := table.Get(k)
		rank, victimRank := expiryRank(e), expiryRank(ve)
		if rank < victimRank || (rank == victimRank && e.LastModified < ve.LastModified) {
			victim, ve = k, e
		}
	}
	return victim, true
}

// admit runs the capacity check for a key that is not in the table yet. It may purge expired
// entries and, under StrategyReplaced, evict one valid entry.
func (o *op[V]) admit(key string) bool {
	cfg := o.c.cfg
	if cfg.max == Unlimited {
		return true
	}
	if cfg.max == 0 {
		return false
	}
	if o.table.Len() < cfg.max {
		return true
	}
	valid := o.validKeys()
	if len(valid) < cfg.max {
		return true
	}
	if cfg.strategy != StrategyReplaced {
		return false
	}
	victim, ok := evictionCandidate(o.table, valid)
	if !ok {
		return false
	}
	o.remove(victim)
	o.c.recorder.Evict(o.c.namespace)
	o.c.logger.Debugf(o.ctx, "evicted %s to admit %s", victim, key)
	return true
}
