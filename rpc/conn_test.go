package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderStreamRoundTrip(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	stream := NewHeaderStream(&buf, &buf)

	call, err := NewCall(ID{number: 7}, "textDocument/diagnostic", map[string]string{"uri": "file:///a.hack"})
	require.NoError(t, err)
	_, err = stream.Write(ctx, call)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Content-Length: ")

	msg, _, err := stream.Read(ctx)
	require.NoError(t, err)
	got, ok := msg.(*Call)
	require.True(t, ok)
	require.Equal(t, "textDocument/diagnostic", got.Method())
	require.Equal(t, ID{number: 7}, got.ID())
	require.JSONEq(t, `{"uri":"file:///a.hack"}`, string(got.Params()))
}

func TestHeaderStreamRejectsMissingLength(t *testing.T) {
	stream := NewHeaderStream(bytes.NewBufferString("Content-Type: x\r\n\r\n{}"), io.Discard)
	_, _, err := stream.Read(context.Background())
	require.EqualError(t, err, "missing Content-Length header")
}

func TestHeaderStreamHeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no colon", input: "Content-Length 2\r\n\r\n{}", want: `invalid header line "Content-Length 2"`},
		{name: "not a number", input: "Content-Length: two\r\n\r\n{}", want: "failed parsing Content-Length: two"},
		{name: "zero", input: "Content-Length: 0\r\n\r\n", want: "invalid Content-Length: 0"},
		{name: "too large", input: "Content-Length: 99999999999\r\n\r\n", want: "message exceeds maximum size: 99999999999 bytes"},
		{name: "short body", input: "Content-Length: 10\r\n\r\n{}", want: "reading 10 byte body: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewHeaderStream(bytes.NewBufferString(tt.input), io.Discard)
			_, _, err := stream.Read(context.Background())
			require.EqualError(t, err, tt.want)
		})
	}
}

func TestHeaderStreamIgnoresOtherHeaders(t *testing.T) {
	body := `{"jsonrpc":"2.0","method":"exit"}`
	input := "Content-Type: application/vscode-jsonrpc; charset=utf-8\r\ncontent-length: 33\r\n\r\n" + body
	stream := NewHeaderStream(bytes.NewBufferString(input), io.Discard)
	msg, n, err := stream.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(len(input)), n)
	require.Equal(t, "exit", msg.(*Notification).Method())
}

func TestHeaderStreamCleanEOF(t *testing.T) {
	stream := NewHeaderStream(bytes.NewBuffer(nil), io.Discard)
	_, _, err := stream.Read(context.Background())
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeRejects(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"jsonrpc":"2.0"}`))
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = DecodeMessage([]byte(`{"jsonrpc":"1.0","method":"x"}`))
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.EqualError(t, err, `JSON RPC invalid request: invalid RPC version "1.0"`)
}

func TestIDString(t *testing.T) {
	require.Equal(t, "7", ID{number: 7}.String())
	require.Equal(t, `"abc"`, ID{name: "abc"}.String())
}

func TestDecodeErrorResponse(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"jsonrpc":"2.0","id":3,"error":{"code":-32602,"message":"bad"}}`))
	require.NoError(t, err)
	resp, ok := msg.(*Response)
	require.True(t, ok)
	var rerr *Error
	require.True(t, errors.As(resp.Err(), &rerr))
	require.Equal(t, int64(-32602), rerr.Code)
}

func TestResponseKeepsWrappedCode(t *testing.T) {
	resp, err := NewResponse(ID{name: "x"}, nil, errors.Join(ErrInvalidParams, errors.New("line is required")))
	require.NoError(t, err)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":"x","error":{"code":-32602,"message":"JSON RPC invalid params\nline is required"}}`, string(data))
}

func TestConnCallAndReply(t *testing.T) {
	ctx := context.Background()
	clientRead, serverWrite := io.Pipe()
	serverRead, clientWrite := io.Pipe()

	server := NewConn(NewHeaderStream(serverRead, serverWrite))
	client := NewConn(NewHeaderStream(clientRead, clientWrite))

	go func() {
		_ = server.Run(ctx, func(ctx context.Context, reply Replier, req Request) error {
			if req.Method() != "echo" {
				return MethodNotFound(ctx, reply, req)
			}
			var p string
			if err := json.Unmarshal(req.Params(), &p); err != nil {
				return reply(ctx, nil, ErrParse)
			}
			return reply(ctx, p, nil)
		})
	}()
	go func() { _ = client.Run(ctx, MethodNotFound) }()
	t.Cleanup(func() {
		_ = clientWrite.Close()
		_ = serverWrite.Close()
	})

	var out string
	_, err := client.Call(ctx, "echo", "hi", &out)
	require.NoError(t, err)
	require.Equal(t, "hi", out)

	_, err = client.Call(ctx, "nope", nil, nil)
	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, ErrMethodNotFound.Code, rerr.Code)
}
