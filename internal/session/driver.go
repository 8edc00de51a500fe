package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Driver is the real-time tick source for an Engine. At most one ticker
// goroutine is alive at a time; each one is bound to the run epoch it was
// scheduled for and exits as soon as that run is superseded.
type Driver struct {
	mu       sync.Mutex
	ctx      context.Context
	engine   *Engine
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      logrus.FieldLogger
}

// NewDriver attaches a Driver to engine. interval is the real time between
// ticks; it defaults to one second. The driver stops when ctx is done.
func NewDriver(ctx context.Context, engine *Engine, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	d := &Driver{
		ctx:      ctx,
		engine:   engine,
		interval: interval,
		log:      engine.log,
	}
	engine.SetScheduler(d)
	return d
}

// Schedule starts ticking for epoch, stopping any previous ticker.
func (d *Driver) Schedule(epoch uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	stop := make(chan struct{})
	d.stopCh = stop
	d.wg.Add(1)
	go d.run(epoch, stop)
}

// Cancel stops the current ticker without waiting for it to exit.
func (d *Driver) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close detaches the driver from its engine and waits for the ticker to exit.
func (d *Driver) Close() {
	d.engine.SetScheduler(nil)
	d.Cancel()
	d.wg.Wait()
}

func (d *Driver) stopLocked() {
	if d.stopCh != nil {
		close(d.stopCh)
		d.stopCh = nil
	}
}

func (d *Driver) run(epoch uint64, stop <-chan struct{}) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			state, err := d.engine.TickFrom(d.ctx, epoch)
			if errors.Is(err, ErrStaleTick) {
				return
			}
			if !state.Running {
				return
			}
		}
	}
}
