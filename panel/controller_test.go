package panel

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/bridge"
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/shop"
)

type stubTimer struct {
	delay     time.Duration
	msg       runtime.Message
	cancelled bool
	fired     bool
}

// stubSched runs posted messages synchronously and holds timers and
// effects for the test to fire by hand.
type stubSched struct {
	timers  []*stubTimer
	effects []runtime.Effect
}

func (s *stubSched) Spawn(effect runtime.Effect) {
	s.effects = append(s.effects, effect)
}

func (s *stubSched) AfterCancellable(delay time.Duration, msg runtime.Message) runtime.TaskHandle {
	t := &stubTimer{delay: delay, msg: msg}
	s.timers = append(s.timers, t)
	return runtime.NewTaskHandle(func() { t.cancelled = true })
}

func (s *stubSched) Post(msg runtime.Message) bool {
	s.deliver(msg)
	return true
}

func (s *stubSched) deliver(msg runtime.Message) {
	if fn, ok := msg.(runtime.FuncMsg); ok && fn.Fn != nil {
		fn.Fn()
	}
}

// fireTimers delivers every live timer registered so far.
func (s *stubSched) fireTimers() {
	timers := s.timers
	s.timers = nil
	for _, t := range timers {
		if t.cancelled || t.fired {
			continue
		}
		t.fired = true
		s.deliver(t.msg)
	}
}

// runEffects executes queued effects synchronously.
func (s *stubSched) runEffects() {
	effects := s.effects
	s.effects = nil
	for _, e := range effects {
		e.Run(context.Background(), func(msg runtime.Message) bool {
			s.deliver(msg)
			return true
		})
	}
}

type hostCall struct {
	event string
	call  bridge.CallData
}

type stubHost struct {
	requests []hostCall
	notifies []string
	respond  func(event string, call bridge.CallData) bridge.Response
	handler  func(bridge.Push)
}

func (h *stubHost) Request(_ context.Context, event string, payload any) bridge.Response {
	call, _ := payload.(bridge.CallData)
	h.requests = append(h.requests, hostCall{event: event, call: call})
	if h.respond != nil {
		return h.respond(event, call)
	}
	return okResponse(`{}`)
}

func (h *stubHost) Notify(event string, _ any) {
	h.notifies = append(h.notifies, event)
}

func (h *stubHost) Subscribe(handler func(bridge.Push)) func() {
	h.handler = handler
	return func() { h.handler = nil }
}

func okResponse(body string) bridge.Response {
	return bridge.Response{Data: json.RawMessage(body)}
}

func testVendorData() bridge.VendorData {
	buyPrice := 250
	return bridge.VendorData{
		Vendor: &shop.Vendor{
			ID:    "blackmarket",
			Label: "Black Market",
			Items: []shop.Item{
				{Name: "gold", Label: "Gold Bar", Price: 500, Category: "valuables"},
				{Name: "ammo", Label: "Ammo Box", Price: 0, BuyPrice: &buyPrice, Category: "supplies"},
			},
		},
		Stock: shop.Stock{"gold": 5},
	}
}

func newTestController() (*Controller, *stubHost, *stubSched) {
	host := &stubHost{}
	sched := &stubSched{}
	ctrl := NewController(host, log.New(io.Discard, "", 0))
	ctrl.Attach(sched)
	return ctrl, host, sched
}

func openPanel(t *testing.T, ctrl *Controller, sched *stubSched) {
	t.Helper()
	ctrl.Open(testVendorData())
	sched.fireTimers()
	if ctrl.Phase() != PhaseOpen {
		t.Fatalf("expected PhaseOpen after transition, got %v", ctrl.Phase())
	}
}

func TestOpenTransitionsAfterDelay(t *testing.T) {
	ctrl, _, sched := newTestController()

	ctrl.Open(testVendorData())
	if ctrl.Phase() != PhaseOpening {
		t.Fatalf("expected PhaseOpening, got %v", ctrl.Phase())
	}
	if len(sched.timers) != 1 || sched.timers[0].delay != transitionDelay {
		t.Fatalf("expected one %v transition timer, got %+v", transitionDelay, sched.timers)
	}
	sched.fireTimers()
	if ctrl.Phase() != PhaseOpen {
		t.Fatalf("expected PhaseOpen, got %v", ctrl.Phase())
	}
	if ctrl.ActiveCategory() != shop.CategoryAll {
		t.Fatalf("expected category reset to all, got %q", ctrl.ActiveCategory())
	}
}

func TestOpenIgnoredWhileSessionLive(t *testing.T) {
	ctrl, _, sched := newTestController()
	openPanel(t, ctrl, sched)

	other := testVendorData()
	other.Vendor.ID = "other"
	ctrl.Open(other)
	if got := ctrl.Vendor().ID; got != "blackmarket" {
		t.Fatalf("expected live session kept, got vendor %q", got)
	}
}

func TestOpenRequiresVendorAndStock(t *testing.T) {
	ctrl, _, _ := newTestController()
	data := testVendorData()
	data.Stock = nil
	ctrl.Open(data)
	if ctrl.Phase() != PhaseClosed {
		t.Fatalf("expected panel to stay closed without stock, got %v", ctrl.Phase())
	}
}

func TestEscapeClosesAndNotifiesOnce(t *testing.T) {
	ctrl, host, sched := newTestController()
	openPanel(t, ctrl, sched)

	if !ctrl.HandleKey(runtime.KeyMsg{Key: backend.KeyEscape}) {
		t.Fatalf("expected escape to be handled while open")
	}
	if ctrl.Phase() != PhaseClosing {
		t.Fatalf("expected PhaseClosing, got %v", ctrl.Phase())
	}
	sched.fireTimers()
	if ctrl.Phase() != PhaseClosed {
		t.Fatalf("expected PhaseClosed, got %v", ctrl.Phase())
	}
	if ctrl.Vendor() != nil || ctrl.Selected() != "" || ctrl.ActiveCategory() != shop.CategoryAll {
		t.Fatalf("expected session state cleared on close")
	}
	if len(host.notifies) != 1 || host.notifies[0] != bridge.EventClose {
		t.Fatalf("expected exactly one close notify, got %v", host.notifies)
	}

	// Escape while closed is ignored.
	if ctrl.HandleKey(runtime.KeyMsg{Key: backend.KeyEscape}) {
		t.Fatalf("expected escape to be ignored while closed")
	}
	if len(host.notifies) != 1 {
		t.Fatalf("expected no second notify, got %v", host.notifies)
	}
}

func TestSelectTogglesAndResetsQuantity(t *testing.T) {
	ctrl, _, sched := newTestController()
	openPanel(t, ctrl, sched)

	ctrl.Select("gold")
	if ctrl.Selected() != "gold" || ctrl.Quantity() != 1 {
		t.Fatalf("expected gold selected with quantity 1, got %q/%d", ctrl.Selected(), ctrl.Quantity())
	}
	ctrl.SetQuantity(3)
	ctrl.Select("gold")
	if ctrl.Selected() != "" {
		t.Fatalf("expected reselect to collapse, got %q", ctrl.Selected())
	}
	ctrl.Select("gold")
	if ctrl.Quantity() != 1 {
		t.Fatalf("expected quantity reset to 1 on select, got %d", ctrl.Quantity())
	}
}

func TestQuantityClamping(t *testing.T) {
	ctrl, _, sched := newTestController()
	openPanel(t, ctrl, sched)

	ctrl.Select("gold") // sell-only, stock 5
	cases := []struct {
		set  int
		want int
	}{
		{set: 999, want: 5},
		{set: 0, want: 1},
		{set: -4, want: 1},
		{set: 3, want: 3},
	}
	for _, tc := range cases {
		ctrl.SetQuantity(tc.set)
		if got := ctrl.Quantity(); got != tc.want {
			t.Fatalf("SetQuantity(%d): expected %d, got %d", tc.set, tc.want, got)
		}
	}

	ctrl.Select("") // clear
	ctrl.Select("ammo") // purchasable
	ctrl.SetQuantity(99999)
	if got := ctrl.Quantity(); got != shop.PurchaseCap {
		t.Fatalf("expected purchasable quantity capped at %d, got %d", shop.PurchaseCap, got)
	}
}

func TestSellSuccessRecordsResultAndRefetches(t *testing.T) {
	ctrl, host, sched := newTestController()
	host.respond = func(event string, _ bridge.CallData) bridge.Response {
		if event == bridge.EventSell {
			return okResponse(`{"success":true,"message":"Sold 2x Gold Bar","paid":1000}`)
		}
		return okResponse(`{"vendor":{"id":"blackmarket","label":"Black Market","model":"","coords":{"x":0,"y":0,"z":0},"heading":0,"items":[{"name":"gold","label":"Gold Bar","price":500}]},"stock":{"gold":3}}`)
	}
	openPanel(t, ctrl, sched)

	ctrl.Select("gold")
	ctrl.SetQuantity(2)
	ctrl.Sell("gold")
	if !ctrl.Busy() || ctrl.Pending() != "gold" {
		t.Fatalf("expected gold transaction in flight")
	}
	sched.runEffects() // sell response
	sched.runEffects() // refetch response

	if ctrl.Busy() {
		t.Fatalf("expected busy cleared after response")
	}
	result, ok := ctrl.ResultFor("gold")
	if !ok || !result.Success || result.Message != "Sold 2x Gold Bar" {
		t.Fatalf("expected success result recorded, got %+v (ok=%v)", result, ok)
	}
	if ctrl.Selected() != "" {
		t.Fatalf("expected selection cleared on success, got %q", ctrl.Selected())
	}
	if len(host.requests) != 2 || host.requests[0].event != bridge.EventSell || host.requests[1].event != bridge.EventRequestData {
		t.Fatalf("expected sell then requestData, got %+v", host.requests)
	}
	if host.requests[0].call.Quantity != 2 {
		t.Fatalf("expected quantity 2 submitted, got %d", host.requests[0].call.Quantity)
	}
	if got := ctrl.Available("gold"); got != 3 {
		t.Fatalf("expected stock replaced wholesale to 3, got %d", got)
	}

	// Result flash clears after its timer.
	sched.fireTimers()
	if _, ok := ctrl.ResultFor("gold"); ok {
		t.Fatalf("expected result cleared after flash delay")
	}
}

func TestSellFailureKeepsSelection(t *testing.T) {
	ctrl, host, sched := newTestController()
	host.respond = func(event string, _ bridge.CallData) bridge.Response {
		return okResponse(`{"success":false,"message":"Not enough space"}`)
	}
	openPanel(t, ctrl, sched)

	ctrl.Select("gold")
	ctrl.Sell("gold")
	sched.runEffects()

	result, ok := ctrl.ResultFor("gold")
	if !ok || result.Success || result.Message != "Not enough space" {
		t.Fatalf("expected failure result, got %+v (ok=%v)", result, ok)
	}
	if ctrl.Selected() != "gold" {
		t.Fatalf("expected selection kept on failure, got %q", ctrl.Selected())
	}
	if len(host.requests) != 1 {
		t.Fatalf("expected no refetch on failure, got %+v", host.requests)
	}
	if ctrl.Busy() {
		t.Fatalf("expected busy cleared on failure")
	}
}

func TestSecondActionWhileBusyIsNoOp(t *testing.T) {
	ctrl, host, sched := newTestController()
	openPanel(t, ctrl, sched)

	ctrl.Select("gold")
	ctrl.Sell("gold")
	ctrl.Sell("gold")
	ctrl.Select("ammo")
	ctrl.Buy("ammo")
	sched.runEffects()

	var trades int
	for _, req := range host.requests {
		if req.event == bridge.EventSell || req.event == bridge.EventBuy {
			trades++
		}
	}
	if trades != 1 {
		t.Fatalf("expected a single trade while busy, got %+v", host.requests)
	}
}

func TestSellGuards(t *testing.T) {
	ctrl, host, sched := newTestController()
	openPanel(t, ctrl, sched)

	// Purchasable items cannot be sold.
	ctrl.Select("ammo")
	ctrl.Sell("ammo")
	// Sell-only items cannot be bought.
	ctrl.Select("gold")
	ctrl.Buy("gold")
	sched.runEffects()
	if len(host.requests) != 0 {
		t.Fatalf("expected no requests for invalid actions, got %+v", host.requests)
	}
}

func TestStaleResponseDiscardedAfterClose(t *testing.T) {
	ctrl, host, sched := newTestController()
	host.respond = func(event string, _ bridge.CallData) bridge.Response {
		return okResponse(`{"success":true,"message":"Sold"}`)
	}
	openPanel(t, ctrl, sched)

	ctrl.Select("gold")
	ctrl.Sell("gold")
	ctrl.RequestClose()
	sched.fireTimers() // finish close before the response lands
	sched.runEffects() // response arrives for the dead session

	if ctrl.Busy() {
		t.Fatalf("expected no busy state after closed session")
	}
	if _, ok := ctrl.ResultFor("gold"); ok {
		t.Fatalf("expected stale result discarded")
	}
	if len(host.notifies) != 1 {
		t.Fatalf("expected one close notify, got %v", host.notifies)
	}
}

func TestResultTimerReplacedForSameItem(t *testing.T) {
	ctrl, host, sched := newTestController()
	host.respond = func(event string, _ bridge.CallData) bridge.Response {
		return okResponse(`{"success":false,"message":"Failed"}`)
	}
	openPanel(t, ctrl, sched)

	ctrl.Select("gold")
	ctrl.Sell("gold")
	sched.runEffects()
	first := lastFlashTimer(t, sched)

	ctrl.Sell("gold")
	sched.runEffects()
	if !first.cancelled {
		t.Fatalf("expected first flash timer cancelled when result replaced")
	}
	if _, ok := ctrl.ResultFor("gold"); !ok {
		t.Fatalf("expected replacement result present")
	}
}

func lastFlashTimer(t *testing.T, sched *stubSched) *stubTimer {
	t.Helper()
	for i := len(sched.timers) - 1; i >= 0; i-- {
		if sched.timers[i].delay == resultFlashDelay {
			return sched.timers[i]
		}
	}
	t.Fatalf("no flash timer scheduled")
	return nil
}

func TestOpenPushStartsSession(t *testing.T) {
	ctrl, host, _ := newTestController()
	if host.handler == nil {
		t.Fatalf("expected controller to subscribe on attach")
	}

	raw := []byte(`{"type":"vendor:open","vendor":{"id":"v1","label":"Shop","model":"","coords":{"x":0,"y":0,"z":0},"heading":0,"items":[]},"stock":{}}`)
	host.handler(bridge.Push{Type: bridge.EventOpen, Data: raw})
	if ctrl.Phase() != PhaseOpening {
		t.Fatalf("expected open push to start opening, got %v", ctrl.Phase())
	}

	// A push missing stock must not open.
	ctrl2, host2, _ := newTestController()
	host2.handler(bridge.Push{Type: bridge.EventOpen, Data: []byte(`{"type":"vendor:open","vendor":{"id":"v1","items":[]}}`)})
	if ctrl2.Phase() != PhaseClosed {
		t.Fatalf("expected push without stock ignored, got %v", ctrl2.Phase())
	}
}

func TestDerivedListsTrackSignals(t *testing.T) {
	ctrl, _, sched := newTestController()
	openPanel(t, ctrl, sched)

	cats := ctrl.CategoryList()
	if len(cats) != 3 || cats[0].ID != shop.CategoryAll {
		t.Fatalf("expected all/valuables/supplies categories, got %v", cats)
	}

	var recomputed int
	unsub := ctrl.visible.Subscribe(func() { recomputed++ })
	defer unsub()

	ctrl.SetCategory("valuables")
	items := ctrl.VisibleItems()
	if len(items) != 1 || items[0].Name != "gold" {
		t.Fatalf("expected only gold after filtering, got %v", items)
	}
	if recomputed == 0 {
		t.Fatalf("expected category change to recompute the visible list")
	}

	ctrl.SetCategory(shop.CategoryAll)
	if got := len(ctrl.VisibleItems()); got != 2 {
		t.Fatalf("expected both items under %q, got %d", shop.CategoryAll, got)
	}
}
