package cache

import (
	"github.com/dlshle/nscache/logging"
	"github.com/dlshle/nscache/timer"
)

// StartSweep runs one validity pass now and, with a positive check period, repeats it every
// period. Restarting replaces the pending schedule.
func (c *Cache[V]) StartSweep() {
	c.StopSweep()
	c.sweep()
	if c.cfg.checkPeriod <= 0 {
		return
	}
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()
	if c.sweeper != nil {
		c.sweeper.Stop()
	}
	c.sweeper = timer.New(c.cfg.checkPeriod, c.sweep)
	c.sweeper.Repeat()
}

// StopSweep cancels the pending pass. A pass already running completes.
func (c *Cache[V]) StopSweep() {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()
	if c.sweeper != nil {
		c.sweeper.Stop()
		c.sweeper = nil
	}
}

// Close stops the sweeper. The storage stays open.
func (c *Cache[V]) Close() error {
	c.StopSweep()
	return nil
}

func (c *Cache[V]) sweep() {
	logging.SetGR("sweep", c.namespace)
	defer logging.DeleteGR("sweep")
	var purged int
	c.do(func(o *op[V]) {
		before := o.table.Len()
		purged = before - len(o.validKeys())
	})
	if purged > 0 {
		c.logger.Debugf(c.ctx, "sweep purged %d expired entries", purged)
	}
}
