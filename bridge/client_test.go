package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	in chan []byte

	mu        sync.Mutex
	writes    [][]byte
	writeErr  error
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 16)}
}

func (f *fakeConn) ReadMessage() ([]byte, error) {
	raw, ok := <-f.in
	if !ok {
		return nil, errors.New("connection closed")
	}
	return raw, nil
}

func (f *fakeConn) WriteMessage(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.in) })
	return nil
}

func (f *fakeConn) lastWrite(t *testing.T) envelope {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		f.mu.Lock()
		n := len(f.writes)
		var raw []byte
		if n > 0 {
			raw = f.writes[n-1]
		}
		f.mu.Unlock()
		if raw != nil {
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				t.Fatalf("unparseable frame written: %v", err)
			}
			return env
		}
		select {
		case <-deadline:
			t.Fatalf("no frame written")
		case <-time.After(time.Millisecond):
		}
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRequestCorrelation(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, quietLogger())
	client.Start()
	defer client.Close()

	done := make(chan Response, 1)
	go func() {
		done <- client.Request(context.Background(), EventRequestData, CallData{VendorID: "weapons"})
	}()

	env := conn.lastWrite(t)
	if env.Event != EventRequestData {
		t.Fatalf("expected event %q, got %q", EventRequestData, env.Event)
	}
	if env.ID == "" {
		t.Fatalf("expected correlated request to carry an id")
	}
	var call CallData
	if err := json.Unmarshal(env.Data, &call); err != nil {
		t.Fatalf("decode call payload: %v", err)
	}
	if call.VendorID != "weapons" {
		t.Fatalf("expected vendorId weapons, got %q", call.VendorID)
	}

	reply, _ := json.Marshal(envelope{ID: env.ID, Data: json.RawMessage(`{"error":""}`)})
	conn.in <- reply

	resp := <-done
	if msg := resp.Err(); msg != "" {
		t.Fatalf("expected success response, got error %q", msg)
	}
}

func TestRequestErrorShapeOnWriteFailure(t *testing.T) {
	conn := newFakeConn()
	conn.writeErr = errors.New("broken pipe")
	client := NewClient(conn, quietLogger())
	client.Start()
	defer client.Close()

	resp := client.Request(context.Background(), EventSell, CallData{VendorID: "v", Name: "gold", Quantity: 1})
	if resp.Err() == "" {
		t.Fatalf("expected error-shaped response on write failure")
	}
}

func TestRequestContextCancel(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, quietLogger())
	client.Start()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Response, 1)
	go func() {
		done <- client.Request(ctx, EventBuy, CallData{VendorID: "v", Name: "ammo", Quantity: 2})
	}()
	conn.lastWrite(t)
	cancel()

	select {
	case resp := <-done:
		if resp.Err() == "" {
			t.Fatalf("expected error-shaped response after cancel")
		}
	case <-time.After(time.Second):
		t.Fatalf("request did not return after cancel")
	}
}

func TestTransportCloseFailsPending(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, quietLogger())
	client.Start()

	done := make(chan Response, 1)
	go func() {
		done <- client.Request(context.Background(), EventRequestData, CallData{VendorID: "v"})
	}()
	conn.lastWrite(t)
	client.Close()

	select {
	case resp := <-done:
		if resp.Err() == "" {
			t.Fatalf("expected error-shaped response after transport close")
		}
	case <-time.After(time.Second):
		t.Fatalf("request did not fail after transport close")
	}

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatalf("done channel not closed")
	}
}

func TestPushDispatchAndUnsubscribe(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, quietLogger())
	client.Start()
	defer client.Close()

	got := make(chan Push, 4)
	unsubscribe := client.Subscribe(func(p Push) { got <- p })

	conn.in <- []byte(`{"type":"vendor:close"}`)
	select {
	case p := <-got:
		if p.Type != EventClose {
			t.Fatalf("expected push type %q, got %q", EventClose, p.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("push not dispatched")
	}

	unsubscribe()
	unsubscribe() // idempotent
	conn.in <- []byte(`{"type":"vendor:close"}`)
	select {
	case <-got:
		t.Fatalf("handler called after unsubscribe")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestMalformedPushDropped(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, quietLogger())
	client.Start()
	defer client.Close()

	got := make(chan Push, 4)
	client.Subscribe(func(p Push) { got <- p })

	conn.in <- []byte(`{"data":1}`)
	conn.in <- []byte(`not json`)
	conn.in <- []byte(`{"type":"vendor:close"}`)

	select {
	case p := <-got:
		if p.Type != EventClose {
			t.Fatalf("expected only the valid push, got type %q", p.Type)
		}
	case <-time.After(time.Second):
		t.Fatalf("valid push not dispatched after malformed frames")
	}
	select {
	case p := <-got:
		t.Fatalf("unexpected extra push dispatched: %q", p.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNotifyWritesFrameWithoutID(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, quietLogger())
	client.Start()
	defer client.Close()

	client.Notify(EventClose, struct{}{})
	env := conn.lastWrite(t)
	if env.Event != EventClose {
		t.Fatalf("expected event %q, got %q", EventClose, env.Event)
	}
	if env.ID != "" {
		t.Fatalf("expected notify to carry no id, got %q", env.ID)
	}
}
