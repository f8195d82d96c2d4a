package main

import (
	"context"
	"sync"
	"time"
)

type saveFunc func(ctx context.Context, text string) error

// debouncedSaver coalesces bursts of saves: only the newest text is written
// once the note has been quiet for the debounce period. Every caller whose text
// was covered by a write gets that write's result.
type debouncedSaver struct {
	save     saveFunc
	debounce time.Duration

	mu      sync.Mutex
	idle    *sync.Cond
	timer   *time.Timer
	pending bool
	running bool
	text    string
	waiters []func(error)
}

func newDebouncedSaver(debounce time.Duration, save saveFunc) *debouncedSaver {
	if debounce < 0 {
		debounce = 0
	}
	d := &debouncedSaver{save: save, debounce: debounce}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Notify schedules text to be written. It never blocks on the write.
func (d *debouncedSaver) Notify(text string, onComplete func(error)) {
	d.mu.Lock()
	d.pending = true
	d.text = text
	if onComplete != nil {
		d.waiters = append(d.waiters, onComplete)
	}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		d.mu.Unlock()
		return
	}
	d.timer.Reset(d.debounce)
	d.mu.Unlock()
}

func (d *debouncedSaver) onTimer() {
	d.mu.Lock()
	if d.running {
		// Another write is in flight; try again after it.
		if d.timer != nil {
			d.timer.Reset(d.debounce)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.runLocked()
	if d.pending && d.timer != nil {
		d.timer.Reset(d.debounce)
	}
	d.mu.Unlock()
}

// Flush writes any pending text now, after waiting for an in-flight write.
func (d *debouncedSaver) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.running {
		d.idle.Wait()
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.pending {
		d.runLocked()
	}
}

// runLocked performs one write. It is called with mu held and returns with
// mu held; the lock is released for the duration of the write.
func (d *debouncedSaver) runLocked() {
	text, waiters := d.text, d.waiters
	d.pending = false
	d.waiters = nil
	d.running = true
	d.mu.Unlock()

	err := d.save(context.Background(), text)
	for _, w := range waiters {
		w(err)
	}

	d.mu.Lock()
	d.running = false
	d.idle.Broadcast()
}
