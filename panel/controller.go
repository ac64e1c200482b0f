package panel

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/peleg-development/peleg-vendors/backend"
	"github.com/peleg-development/peleg-vendors/bridge"
	"github.com/peleg-development/peleg-vendors/runtime"
	"github.com/peleg-development/peleg-vendors/shop"
	"github.com/peleg-development/peleg-vendors/state"
)

// Phase is the panel lifecycle state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
	PhaseClosing
)

// transitionDelay is the open/close animation window.
const transitionDelay = 200 * time.Millisecond

// resultFlashDelay is how long a transaction result stays on a tile.
const resultFlashDelay = 2 * time.Second

// Result is a transient transaction outcome shown on an item tile.
type Result struct {
	Success bool
	Message string
}

// Host is the bridge surface the controller uses. *bridge.Client
// satisfies it; tests substitute a fake.
type Host interface {
	Request(ctx context.Context, event string, payload any) bridge.Response
	Notify(event string, payload any)
	Subscribe(handler func(bridge.Push)) func()
}

// scheduler is the slice of runtime.Services the controller needs.
type scheduler interface {
	Spawn(effect runtime.Effect)
	AfterCancellable(delay time.Duration, msg runtime.Message) runtime.TaskHandle
	Post(msg runtime.Message) bool
}

// Controller owns all session state for the panel. Views read snapshots
// through its accessors and mutate only through its methods; everything
// here runs on the UI goroutine except the push subscription, which
// reposts onto it.
type Controller struct {
	host   Host
	sched  scheduler
	logger *log.Logger

	phase    *state.Signal[Phase]
	vendor   *state.Signal[*shop.Vendor]
	stock    *state.Signal[shop.Stock]
	limits   *state.Signal[shop.Limits]
	selected *state.Signal[string]
	category *state.Signal[string]
	quantity *state.Signal[int]
	pending  *state.Signal[string]
	results  *state.Signal[map[string]Result]
	theme    *state.Signal[Theme]

	// Derivations over vendor and category; views read these instead
	// of re-filtering per call.
	categories *state.Computed[[]shop.Category]
	visible    *state.Computed[[]shop.Item]

	// session is a generation counter bumped whenever a session starts
	// or ends; async completions carrying a stale generation are
	// discarded.
	session       int
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	closeNotified bool

	// themeOverride forces a palette regardless of vendor choice; 0
	// keeps the vendor's own theme.
	themeOverride int

	transition   runtime.TaskHandle
	resultTimers map[string]runtime.TaskHandle

	unsubscribe func()
}

// NewController creates a detached controller. Attach wires it into the
// running app.
func NewController(host Host, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(os.Stderr, "[panel] ", log.LstdFlags|log.Lmicroseconds)
	}
	c := &Controller{
		host:         host,
		logger:       logger,
		phase:        state.NewComparableSignal(PhaseClosed),
		vendor:       state.NewSignal[*shop.Vendor](nil),
		stock:        state.NewSignal[shop.Stock](nil),
		limits:       state.NewSignal[shop.Limits](nil),
		selected:     state.NewComparableSignal(""),
		category:     state.NewComparableSignal(shop.CategoryAll),
		quantity:     state.NewComparableSignal(1),
		pending:      state.NewComparableSignal(""),
		results:      state.NewSignal[map[string]Result](nil),
		theme:        state.NewSignal(ThemeFor(0)),
		resultTimers: make(map[string]runtime.TaskHandle),
	}
	c.categories = state.NewComputed(func() []shop.Category {
		return shop.Categories(c.vendor.Get())
	}, c.vendor)
	c.visible = state.NewComputed(func() []shop.Item {
		return shop.FilteredItems(c.vendor.Get(), c.category.Get())
	}, c.vendor, c.category)
	return c
}

// SetThemeOverride forces a palette for every session; 0 restores the
// vendor's own choice.
func (c *Controller) SetThemeOverride(id int) {
	c.themeOverride = id
}

// Attach hooks the controller to the app scheduler and subscribes to
// host pushes.
func (c *Controller) Attach(sched scheduler) {
	c.sched = sched
	if c.unsubscribe == nil && c.host != nil {
		c.unsubscribe = c.host.Subscribe(c.onPush)
	}
}

// Detach unsubscribes from host pushes and tears the session down.
func (c *Controller) Detach() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.phase.Get() != PhaseClosed {
		c.finishClose(c.session)
	}
}

// onPush runs on the bridge read goroutine; it reposts onto the UI loop.
func (c *Controller) onPush(p bridge.Push) {
	if p.Type != bridge.EventOpen {
		return
	}
	var data bridge.VendorData
	if err := json.Unmarshal(p.Data, &data); err != nil {
		c.logger.Printf("dropping open push: %v", err)
		return
	}
	if data.Vendor == nil || data.Stock == nil {
		c.logger.Printf("dropping open push: missing vendor or stock")
		return
	}
	c.post(func() { c.Open(data) })
}

// Open begins a new session and starts the opening transition. Pushes
// arriving while a session is already live are ignored.
func (c *Controller) Open(data bridge.VendorData) {
	if data.Vendor == nil || data.Stock == nil {
		return
	}
	if c.phase.Get() != PhaseClosed {
		return
	}
	c.endSession()
	c.sessionCtx, c.sessionCancel = context.WithCancel(context.Background())
	c.closeNotified = false

	c.vendor.Set(data.Vendor)
	c.stock.Set(data.Stock)
	c.limits.Set(data.Limits)
	themeID := data.Vendor.Theme
	if c.themeOverride != 0 {
		themeID = c.themeOverride
	}
	c.theme.Set(ThemeFor(themeID))
	c.category.Set(shop.CategoryAll)
	c.selected.Set("")
	c.quantity.Set(1)
	c.pending.Set("")
	c.results.Set(nil)

	c.phase.Set(PhaseOpening)
	session := c.session
	c.transition.Cancel()
	c.transition = c.after(transitionDelay, func() {
		if session == c.session && c.phase.Get() == PhaseOpening {
			c.phase.Set(PhaseOpen)
		}
	})
}

// RequestClose starts the closing transition. It is a no-op unless the
// panel is visible.
func (c *Controller) RequestClose() {
	phase := c.phase.Get()
	if phase != PhaseOpening && phase != PhaseOpen {
		return
	}
	c.phase.Set(PhaseClosing)
	session := c.session
	c.transition.Cancel()
	c.transition = c.after(transitionDelay, func() {
		c.finishClose(session)
	})
}

// finishClose clears every piece of session state and emits the single
// close notify for the session.
func (c *Controller) finishClose(session int) {
	if session != c.session {
		return
	}
	c.endSession()
	c.phase.Set(PhaseClosed)
	c.vendor.Set(nil)
	c.stock.Set(nil)
	c.limits.Set(nil)
	c.selected.Set("")
	c.category.Set(shop.CategoryAll)
	c.quantity.Set(1)
	c.pending.Set("")
	c.results.Set(nil)
	if !c.closeNotified {
		c.closeNotified = true
		if c.host != nil {
			c.host.Notify(bridge.EventClose, struct{}{})
		}
	}
}

// endSession invalidates the current generation so in-flight work is
// discarded, and cancels everything scheduled under it.
func (c *Controller) endSession() {
	c.session++
	c.transition.Cancel()
	c.transition = runtime.TaskHandle{}
	for name, handle := range c.resultTimers {
		handle.Cancel()
		delete(c.resultTimers, name)
	}
	if c.sessionCancel != nil {
		c.sessionCancel()
		c.sessionCancel = nil
	}
}

// Select makes an item the single selection and resets its working
// quantity. Selecting the selected item again collapses it.
func (c *Controller) Select(name string) {
	if c.selected.Get() == name {
		name = ""
	}
	c.selected.Set(name)
	c.quantity.Set(1)
}

// SetCategory switches the active category filter.
func (c *Controller) SetCategory(id string) {
	if id == "" {
		id = shop.CategoryAll
	}
	c.category.Set(id)
}

// AdjustQuantity steps the working quantity, clamped to the selected
// item's bound.
func (c *Controller) AdjustQuantity(delta int) {
	c.SetQuantity(c.quantity.Get() + delta)
}

// SetQuantity replaces the working quantity, clamped. Non-numeric input
// upstream arrives here as 0 and clamps to 1.
func (c *Controller) SetQuantity(qty int) {
	item, ok := c.selectedItem()
	if !ok {
		return
	}
	c.quantity.Set(shop.ClampQuantity(item, c.Available(item.Name), qty))
}

// Sell submits a sell for the selected quantity of an item. A second
// call while a transaction is in flight is a no-op.
func (c *Controller) Sell(name string) {
	item, ok := c.item(name)
	if !ok || c.Busy() {
		return
	}
	qty := c.quantity.Get()
	if !shop.CanSell(item, c.Available(name), qty, false) {
		return
	}
	c.submit(bridge.EventSell, name, qty)
}

// Buy submits a buy for the selected quantity of an item.
func (c *Controller) Buy(name string) {
	item, ok := c.item(name)
	if !ok || c.Busy() {
		return
	}
	qty := c.quantity.Get()
	if !shop.CanBuy(item, qty, false) {
		return
	}
	c.submit(bridge.EventBuy, name, qty)
}

func (c *Controller) submit(event, name string, qty int) {
	vendor := c.vendor.Get()
	if vendor == nil {
		return
	}
	c.pending.Set(name)
	c.quantity.Set(1)
	session := c.session
	ctx := c.sessionCtx
	call := bridge.CallData{VendorID: vendor.ID, Name: name, Quantity: qty}
	c.spawn(func() bridge.Response {
		return c.host.Request(ctx, event, call)
	}, func(resp bridge.Response) {
		c.finishTrade(session, name, resp)
	})
}

func (c *Controller) finishTrade(session int, name string, resp bridge.Response) {
	if session != c.session {
		c.logger.Printf("discarding stale %s result for closed session", name)
		return
	}
	c.pending.Set("")

	result := Result{}
	if msg := resp.Err(); msg != "" {
		result = Result{Success: false, Message: msg}
	} else {
		var trade bridge.TradeResult
		if err := resp.Decode(&trade); err != nil {
			result = Result{Success: false, Message: "Something went wrong"}
		} else {
			result = Result{Success: trade.Success, Message: trade.Message}
		}
	}
	c.setResult(session, name, result)

	if result.Success {
		c.selected.Set("")
		c.refetch(session)
	}
}

// setResult records a transient result for an item and schedules its
// clear, cancelling any pending clear for the same item.
func (c *Controller) setResult(session int, name string, result Result) {
	c.results.Update(func(m map[string]Result) map[string]Result {
		out := make(map[string]Result, len(m)+1)
		for k, v := range m {
			out[k] = v
		}
		out[name] = result
		return out
	})
	if handle := c.resultTimers[name]; handle.Active() {
		handle.Cancel()
	}
	c.resultTimers[name] = c.after(resultFlashDelay, func() {
		if session != c.session {
			return
		}
		delete(c.resultTimers, name)
		c.results.Update(func(m map[string]Result) map[string]Result {
			out := make(map[string]Result, len(m))
			for k, v := range m {
				if k != name {
					out[k] = v
				}
			}
			return out
		})
	})
}

// refetch replaces vendor, stock and limits wholesale from the host.
func (c *Controller) refetch(session int) {
	vendor := c.vendor.Get()
	if vendor == nil {
		return
	}
	ctx := c.sessionCtx
	call := bridge.CallData{VendorID: vendor.ID}
	c.spawn(func() bridge.Response {
		return c.host.Request(ctx, bridge.EventRequestData, call)
	}, func(resp bridge.Response) {
		if session != c.session {
			return
		}
		if msg := resp.Err(); msg != "" {
			c.logger.Printf("vendor refresh failed: %s", msg)
			return
		}
		var data bridge.VendorData
		if err := resp.Decode(&data); err != nil || data.Vendor == nil {
			c.logger.Printf("vendor refresh failed: bad payload")
			return
		}
		c.vendor.Set(data.Vendor)
		c.stock.Set(data.Stock)
		c.limits.Set(data.Limits)
	})
}

// HandleKey processes panel-level shortcuts. Escape closes the panel
// while it is visible.
func (c *Controller) HandleKey(msg runtime.KeyMsg) bool {
	if msg.Key != backend.KeyEscape {
		return false
	}
	phase := c.phase.Get()
	if phase != PhaseOpening && phase != PhaseOpen {
		return false
	}
	c.RequestClose()
	return true
}

// Snapshot accessors. Views call these during render; they never block.

func (c *Controller) Phase() Phase           { return c.phase.Get() }
func (c *Controller) Vendor() *shop.Vendor   { return c.vendor.Get() }
func (c *Controller) Stock() shop.Stock      { return c.stock.Get() }
func (c *Controller) Limits() shop.Limits    { return c.limits.Get() }
func (c *Controller) Selected() string       { return c.selected.Get() }
func (c *Controller) ActiveCategory() string { return c.category.Get() }
func (c *Controller) Quantity() int          { return c.quantity.Get() }
func (c *Controller) Theme() Theme           { return c.theme.Get() }

// Busy reports whether a transaction is in flight.
func (c *Controller) Busy() bool {
	return c.pending.Get() != ""
}

// Pending returns the item name of the in-flight transaction, if any.
func (c *Controller) Pending() string {
	return c.pending.Get()
}

// ResultFor returns the transient result for an item.
func (c *Controller) ResultFor(name string) (Result, bool) {
	r, ok := c.results.Get()[name]
	return r, ok
}

// Available returns the sellable stock for an item.
func (c *Controller) Available(name string) int {
	return c.stock.Get()[name]
}

// LimitFor returns the allowance record for an item.
func (c *Controller) LimitFor(name string) (shop.Limit, bool) {
	l, ok := c.limits.Get()[name]
	return l, ok
}

// CategoryList returns the sidebar entries for the current vendor.
func (c *Controller) CategoryList() []shop.Category {
	return c.categories.Get()
}

// VisibleItems returns the items under the active category.
func (c *Controller) VisibleItems() []shop.Item {
	return c.visible.Get()
}

// signals lists every session signal, for views to observe.
func (c *Controller) signals() []state.Subscribable {
	return []state.Subscribable{
		c.phase, c.vendor, c.stock, c.limits, c.selected,
		c.category, c.quantity, c.pending, c.results, c.theme,
	}
}

func (c *Controller) selectedItem() (shop.Item, bool) {
	return c.item(c.selected.Get())
}

func (c *Controller) item(name string) (shop.Item, bool) {
	vendor := c.vendor.Get()
	if vendor == nil || name == "" {
		return shop.Item{}, false
	}
	for _, it := range vendor.Items {
		if it.Name == name {
			return it, true
		}
	}
	return shop.Item{}, false
}

// post reschedules fn onto the UI goroutine.
func (c *Controller) post(fn func()) {
	if c.sched == nil {
		fn()
		return
	}
	c.sched.Post(runtime.FuncMsg{Fn: fn})
}

// after schedules fn on the UI goroutine with a cancel handle.
func (c *Controller) after(delay time.Duration, fn func()) runtime.TaskHandle {
	if c.sched == nil {
		return runtime.TaskHandle{}
	}
	return c.sched.AfterCancellable(delay, runtime.FuncMsg{Fn: fn})
}

// spawn runs a blocking call off the UI goroutine and delivers its
// response back on it.
func (c *Controller) spawn(call func() bridge.Response, done func(bridge.Response)) {
	if c.sched == nil {
		done(call())
		return
	}
	c.sched.Spawn(runtime.Effect{
		Run: func(_ context.Context, post runtime.PostFunc) {
			resp := call()
			post(runtime.FuncMsg{Fn: func() { done(resp) }})
		},
	})
}
