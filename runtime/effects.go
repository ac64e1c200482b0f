package runtime

import (
	"context"
	"time"
)

// After posts a message after a delay.
func After(delay time.Duration, msg Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if msg == nil || post == nil {
				return
			}
			if delay <= 0 {
				post(msg)
				return
			}
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				post(msg)
			}
		},
	}
}

// Every posts messages on a fixed interval.
// Returning nil from fn skips posting.
func Every(interval time.Duration, fn func(time.Time) Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if interval <= 0 || fn == nil || post == nil {
				return
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					if msg := fn(now); msg != nil {
						post(msg)
					}
				}
			}
		},
	}
}

// TaskHandle cancels an in-flight effect.
// The zero value is a no-op, so handles can be overwritten freely.
type TaskHandle struct {
	cancel context.CancelFunc
}

// NewTaskHandle wraps a cancel function in a handle.
func NewTaskHandle(cancel context.CancelFunc) TaskHandle {
	return TaskHandle{cancel: cancel}
}

// Cancel stops the effect if it is still pending.
func (h TaskHandle) Cancel() {
	if h.cancel != nil {
		h.cancel()
	}
}

// Active reports whether the handle refers to a spawned effect.
func (h TaskHandle) Active() bool {
	return h.cancel != nil
}
