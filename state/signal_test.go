package state

import "testing"

func TestSignalSetNotifiesSubscribers(t *testing.T) {
	sig := NewSignal(1)
	var calls int
	unsub := sig.Subscribe(func() { calls++ })

	sig.Set(2)
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
	if got := sig.Get(); got != 2 {
		t.Fatalf("expected value 2, got %d", got)
	}

	unsub()
	unsub() // idempotent
	sig.Set(3)
	if calls != 1 {
		t.Fatalf("expected no notification after unsubscribe, got %d", calls)
	}
}

func TestComparableSignalSuppressesNoOpSets(t *testing.T) {
	sig := NewComparableSignal("a")
	var calls int
	sig.Subscribe(func() { calls++ })

	if sig.Set("a") {
		t.Fatalf("expected no-op set to report false")
	}
	if calls != 0 {
		t.Fatalf("expected no notification for equal value, got %d", calls)
	}
	if !sig.Set("b") {
		t.Fatalf("expected changed set to report true")
	}
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
}

func TestSignalUpdate(t *testing.T) {
	sig := NewSignal(10)
	sig.Update(func(v int) int { return v + 5 })
	if got := sig.Get(); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
}

func TestSubscribeWithSchedulerDefersCallback(t *testing.T) {
	sig := NewSignal(0)
	queue := NewQueue()
	var calls int
	sig.SubscribeWithScheduler(queue, func() { calls++ })

	sig.Set(1)
	if calls != 0 {
		t.Fatalf("expected callback deferred until flush, got %d", calls)
	}
	if n := queue.Flush(); n != 1 {
		t.Fatalf("expected 1 queued callback, got %d", n)
	}
	if calls != 1 {
		t.Fatalf("expected callback after flush, got %d", calls)
	}
}

func TestComputedTracksDependencies(t *testing.T) {
	base := NewComparableSignal(2)
	doubled := NewComputed(func() int { return base.Get() * 2 }, base)
	if got := doubled.Get(); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}

	var calls int
	doubled.Subscribe(func() { calls++ })
	base.Set(5)
	if got := doubled.Get(); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}

	doubled.Stop()
	base.Set(7)
	if got := doubled.Get(); got != 10 {
		t.Fatalf("expected stale value after Stop, got %d", got)
	}
}

func TestSubscriptionsClear(t *testing.T) {
	sig := NewSignal(0)
	var subs Subscriptions
	var calls int
	subs.Observe(sig, func() { calls++ })

	sig.Set(1)
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	subs.Clear()
	sig.Set(2)
	if calls != 1 {
		t.Fatalf("expected no call after Clear, got %d", calls)
	}
}

func TestSubscriptionsObserveUsesScheduler(t *testing.T) {
	sig := NewSignal(0)
	queue := NewQueue()
	var subs Subscriptions
	subs.SetScheduler(queue)
	var calls int
	subs.Observe(sig, func() { calls++ })

	sig.Set(1)
	if calls != 0 {
		t.Fatalf("expected deferred callback, got %d", calls)
	}
	queue.Flush()
	if calls != 1 {
		t.Fatalf("expected callback after flush, got %d", calls)
	}
}
