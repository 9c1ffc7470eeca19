package hapble

import (
	"sync"
	"time"
)

// DefaultWatchTimeout bounds a guarded operation when the caller has no
// better limit. GATT has no per-operation timeout of its own, so every
// read and write should be wrapped in a Watcher.
const DefaultWatchTimeout = 3 * time.Second

type watchState int

const (
	armed watchState = iota
	fired
	disarmed
)

// A Watcher guards one in-flight operation against one connected peer.
// It fires its callback on peer disconnect or on elapsed timeout,
// whichever comes first, and at most once per instance.
type Watcher struct {
	mu       sync.Mutex
	state    watchState
	onAbort  func(Reason)
	timer    *time.Timer
	unlisten func()
}

// Watch arms a watcher around an operation about to be issued on c.
// A positive timeout starts a one-shot timer; zero or negative disables
// it, leaving only the disconnect trigger. onAbort is invoked with the
// winning reason; the losing trigger is a no-op.
//
// The caller must call Stop on every exit path once the operation
// resolves, and must not call it twice.
func Watch(c Conn, timeout time.Duration, onAbort func(Reason)) *Watcher {
	w := &Watcher{onAbort: onAbort}
	w.unlisten = c.OnDisconnect(func(reason Reason) {
		if reason == "" {
			reason = Disconnected
		}
		w.fire(reason)
	})
	if timeout > 0 {
		w.timer = time.AfterFunc(timeout, func() { w.fire(Timeout) })
	}
	return w
}

func (w *Watcher) fire(reason Reason) {
	w.mu.Lock()
	if w.state != armed {
		w.mu.Unlock()
		return
	}
	w.state = fired
	f := w.onAbort
	w.mu.Unlock()
	f(reason)
}

// Stop disarms the watcher: the pending timer is cleared and the
// disconnect registration removed. A watcher that already fired is
// still released, but the callback is never re-run.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.state == armed {
		w.state = disarmed
	}
	t := w.timer
	w.timer = nil
	w.mu.Unlock()
	if t != nil {
		t.Stop()
	}
	if w.unlisten != nil {
		w.unlisten()
	}
}

// Fired reports whether the watcher aborted the operation.
func (w *Watcher) Fired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == fired
}
