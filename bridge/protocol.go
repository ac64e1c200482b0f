// Package bridge is the transport between the panel and the game-script
// host: correlated request/response calls, fire-and-forget notifies, and
// host pushes discriminated by a type field.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/peleg-development/peleg-vendors/shop"
)

// Host call and push names. These are protocol contract; the host side
// registers callbacks under the same resource-prefixed names.
const (
	EventOpen        = "vendor:open"
	EventRequestData = "vendor:requestData"
	EventSell        = "vendor:sell"
	EventBuy         = "vendor:buy"
	EventClose       = "vendor:close"
)

// envelope is the wire frame for everything crossing the bridge.
// Outbound requests carry an ID; host responses echo it back. Host
// pushes carry a Type instead.
type envelope struct {
	ID    string          `json:"id,omitempty"`
	Event string          `json:"event,omitempty"`
	Type  string          `json:"type,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Response is a host reply, or an error-shaped stand-in when transport
// failed. Callers never see a Go error for the request path.
type Response struct {
	Data json.RawMessage
}

// errorResponse makes a response carrying a structured error field.
func errorResponse(msg string) Response {
	raw, _ := json.Marshal(map[string]string{"error": msg})
	return Response{Data: raw}
}

// Err returns the structured error carried by the response, if any.
func (r Response) Err() string {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.Data, &probe); err != nil {
		return fmt.Sprintf("malformed response: %v", err)
	}
	return probe.Error
}

// Decode unmarshals the response body into v.
func (r Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("empty response")
	}
	return json.Unmarshal(r.Data, v)
}

// Push is a host-initiated message.
type Push struct {
	Type string
	Data json.RawMessage
}

// CallData is the payload for requestData, sell and buy calls.
type CallData struct {
	VendorID string `json:"vendorId"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// VendorData is the host's reply to requestData, and the body of the
// open push. Vendor and stock are replaced together, never merged.
type VendorData struct {
	Vendor *shop.Vendor `json:"vendor"`
	Stock  shop.Stock   `json:"stock"`
	Limits shop.Limits  `json:"limits,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// TradeResult is the host's reply to a sell or buy call.
type TradeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Paid    *int   `json:"paid,omitempty"`
	Left    *int   `json:"left,omitempty"`
}
