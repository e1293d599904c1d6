// Package lintclient talks to the remote lint server.
package lintclient

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/corymhall/lintlsp/typ"
	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// UserAgent is sent with every request so lint servers can tell editor
// traffic apart.
const UserAgent = "Dead Simple Lint Server Integration"

const tracerName = "github.com/corymhall/lintlsp/lintclient"

type Client struct {
	httpClient *http.Client
	tracer     trace.Tracer
}

type Option func(*Client)

// WithTracerProvider records request spans with tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// NewClient returns a client that sends requests with httpClient. A nil
// httpClient yields a client whose every request fails with ErrNoNetwork.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type request struct {
	body *string
}

type RequestOption func(*request)

// WithBody sends text as the request body. Requests with a body are POSTs,
// requests without one are GETs.
func WithBody(text string) RequestOption {
	return func(r *request) { r.body = &text }
}

// JSON performs a single request against target and narrows the JSON
// response with decode. Errors from decode are returned unchanged.
func JSON[T any](ctx context.Context, c *Client, target string, decode typ.Assert[T], opts ...RequestOption) (T, error) {
	var zero T
	var r request
	for _, o := range opts {
		o(&r)
	}
	method := http.MethodGet
	if r.body != nil {
		method = http.MethodPost
	}

	ctx, span := c.tracer.Start(ctx, "lintclient.JSON", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("lint.uri", target),
	))
	defer span.End()

	text, err := c.do(ctx, method, target, r.body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		err := &MalformedBodyError{Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}
	v, err := decode(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "response did not match schema")
		return zero, err
	}
	return v, nil
}

// do sends the request and returns the body of a 200 response.
func (c *Client) do(ctx context.Context, method, target string, body *string) (string, error) {
	if c == nil || c.httpClient == nil {
		return "", ErrNoNetwork
	}
	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(*body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", &InvalidURIError{URI: target, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UnreachableError{URI: target, Err: err}
	}
	defer resp.Body.Close()

	// the body is part of StatusError
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnreachableError{URI: target, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return string(data), nil
}
