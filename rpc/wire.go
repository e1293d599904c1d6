package rpc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// version is the only jsonrpc tag this package writes or accepts.
const version = "2.0"

// ID identifies a Call and ties its Response back to it. Peers may use numbers
// or strings and both are echoed back unchanged.
type ID struct {
	name   string
	number int64
}

func (id ID) String() string {
	if id.name != "" {
		return strconv.Quote(id.name)
	}
	return strconv.FormatInt(id.number, 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.name != "" {
		return json.Marshal(id.name)
	}
	return json.Marshal(id.number)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID{}
	if err := json.Unmarshal(data, &id.number); err == nil {
		return nil
	}
	return json.Unmarshal(data, &id.name)
}

// envelope is the wire shape shared by every message kind. Which fields are
// set decides what the message is:
//
//	method + id  -> Call
//	method       -> Notification
//	id           -> Response
type envelope struct {
	Version string           `json:"jsonrpc"`
	ID      *ID              `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  *json.RawMessage `json:"params,omitempty"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`
}

func (e envelope) encode(kind string) ([]byte, error) {
	e.Version = version
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", kind, err)
	}
	return data, nil
}

// message converts a decoded envelope into the Message it carries.
func (e envelope) message() (Message, error) {
	// a missing tag is tolerated, a wrong one is not
	if e.Version != "" && e.Version != version {
		return nil, fmt.Errorf("%w: invalid RPC version %q", ErrInvalidRequest, e.Version)
	}
	switch {
	case e.Method == "" && e.ID == nil:
		return nil, ErrInvalidRequest
	case e.Method == "":
		resp := &Response{id: *e.ID, result: raw(e.Result)}
		if e.Error != nil {
			resp.err = e.Error
		}
		return resp, nil
	case e.ID == nil:
		return &Notification{method: e.Method, params: raw(e.Params)}, nil
	default:
		return &Call{id: *e.ID, method: e.Method, params: raw(e.Params)}, nil
	}
}

func raw(m *json.RawMessage) json.RawMessage {
	if m == nil {
		return nil
	}
	return *m
}
