package screentest

import (
	"sync"
	"testing"

	"github.com/go-drift/conductor/pkg/dispatch"
)

// Dispatches captures callbacks posted to the UI thread so a test decides
// when they run.
type Dispatches struct {
	mu      sync.Mutex
	pending []func()
}

// RecordDispatches registers a capturing dispatcher for the duration of tb.
func RecordDispatches(tb testing.TB) *Dispatches {
	tb.Helper()
	d := &Dispatches{}
	dispatch.RegisterDispatch(d.post)
	tb.Cleanup(func() { dispatch.RegisterDispatch(nil) })
	return d
}

func (d *Dispatches) post(cb func()) {
	d.mu.Lock()
	d.pending = append(d.pending, cb)
	d.mu.Unlock()
}

// Pending returns the number of callbacks waiting to run.
func (d *Dispatches) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush runs pending callbacks, including ones they post, and returns how
// many ran.
func (d *Dispatches) Flush() int {
	n := 0
	for {
		d.mu.Lock()
		batch := d.pending
		d.pending = nil
		d.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for _, cb := range batch {
			cb()
			n++
		}
	}
}
