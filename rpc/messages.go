package rpc

import (
	"encoding/json"
	"fmt"
)

// Message is one of *Call, *Notification or *Response.
type Message interface {
	isRPCMessage()
}

// Request is a message that asks for a method to be invoked. The set of
// implementations is closed: *Call and *Notification.
type Request interface {
	Message
	Method() string
	// Params is the raw JSON parameter value, possibly empty.
	Params() json.RawMessage
	isRPCRequest()
}

// Notification is a Request that never gets a Response.
type Notification struct {
	method string
	params json.RawMessage
}

// Call is a Request that expects a Response carrying the same ID.
type Call struct {
	method string
	params json.RawMessage
	id     ID
}

// Response answers a Call. Exactly one of result and err is meaningful.
type Response struct {
	result json.RawMessage
	err    error
	id     ID
}

// NewNotification builds a Notification, marshaling params up front so
// encoding failures surface to the sender.
func NewNotification(method string, params any) (*Notification, error) {
	p, err := marshalToRaw(params)
	return &Notification{method: method, params: p}, err
}

// NewCall builds a Call with the given id.
func NewCall(id ID, method string, params any) (*Call, error) {
	p, err := marshalToRaw(params)
	return &Call{id: id, method: method, params: p}, err
}

// NewResponse builds the reply to the Call with the given id. When err is set
// the result is not sent.
func NewResponse(id ID, result any, err error) (*Response, error) {
	r, merr := marshalToRaw(result)
	return &Response{id: id, result: r, err: err}, merr
}

func (n *Notification) Method() string          { return n.method }
func (n *Notification) Params() json.RawMessage { return n.params }
func (*Notification) isRPCMessage()             {}
func (*Notification) isRPCRequest()             {}

func (c *Call) Method() string          { return c.method }
func (c *Call) Params() json.RawMessage { return c.params }
func (c *Call) ID() ID                  { return c.id }
func (*Call) isRPCMessage()             {}
func (*Call) isRPCRequest()             {}

func (r *Response) ID() ID                  { return r.id }
func (r *Response) Result() json.RawMessage { return r.result }
func (r *Response) Err() error              { return r.err }
func (*Response) isRPCMessage()             {}

func (n *Notification) MarshalJSON() ([]byte, error) {
	return envelope{Method: n.method, Params: &n.params}.encode("notification")
}

func (c *Call) MarshalJSON() ([]byte, error) {
	return envelope{Method: c.method, Params: &c.params, ID: &c.id}.encode("call")
}

func (r *Response) MarshalJSON() ([]byte, error) {
	e := envelope{ID: &r.id, Error: toWireError(r.err)}
	if e.Error == nil {
		e.Result = &r.result
	}
	return e.encode("response")
}

func marshalToRaw(obj any) (json.RawMessage, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(data), nil
}

// DecodeMessage parses one JSON-RPC message. A body with neither a method nor
// an id is rejected with ErrInvalidRequest.
func DecodeMessage(data []byte) (Message, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshaling jsonrpc message: %w", err)
	}
	return e.message()
}
