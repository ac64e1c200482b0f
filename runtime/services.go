package runtime

import (
	"time"

	"github.com/peleg-development/peleg-vendors/state"
)

// Services exposes app-level scheduling and messaging helpers to widgets.
type Services struct {
	app *App
}

// Services returns a service handle for the app.
func (a *App) Services() Services {
	return Services{app: a}
}

func (s Services) isZero() bool {
	return s.app == nil
}

// Scheduler returns the app state scheduler.
func (s Services) Scheduler() state.Scheduler {
	if s.app == nil {
		return nil
	}
	return s.app.StateScheduler()
}

// Invalidate requests a render pass.
func (s Services) Invalidate() {
	if s.app == nil {
		return
	}
	s.app.Invalidate()
}

// Post sends a message into the app loop.
func (s Services) Post(msg Message) bool {
	if s.app == nil {
		return false
	}
	return s.app.tryPost(msg)
}

// Spawn starts an effect under the app task context.
func (s Services) Spawn(effect Effect) {
	if s.app == nil {
		return
	}
	s.app.Spawn(effect)
}

// SpawnCancellable starts an effect and returns a handle to cancel it.
func (s Services) SpawnCancellable(effect Effect) TaskHandle {
	if s.app == nil {
		return TaskHandle{}
	}
	return s.app.SpawnCancellable(effect)
}

// After schedules a delayed message.
func (s Services) After(delay time.Duration, msg Message) {
	if s.app == nil {
		return
	}
	s.app.After(delay, msg)
}

// AfterCancellable schedules a delayed message with a cancel handle.
func (s Services) AfterCancellable(delay time.Duration, msg Message) TaskHandle {
	if s.app == nil {
		return TaskHandle{}
	}
	return s.app.SpawnCancellable(After(delay, msg))
}
