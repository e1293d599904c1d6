package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxMessageSize bounds the Content-Length a peer may announce. Editors send
// whole documents on open and change, so this is generous.
const MaxMessageSize = 64 << 20

var (
	// ErrMissingLength is returned for a header block without Content-Length.
	ErrMissingLength = errors.New("missing Content-Length header")
	// ErrMessageTooLarge is returned when Content-Length exceeds MaxMessageSize.
	ErrMessageTooLarge = errors.New("message exceeds maximum size")
)

// Stream moves whole messages to and from the peer. Each Read or Write
// transfers exactly one message or fails. A Stream is used by a single Conn,
// which serializes writes; it is not otherwise safe for concurrent use.
type Stream interface {
	// Read returns the next message and the number of bytes consumed.
	Read(context.Context) (Message, int64, error)
	// Write sends msg and returns the number of bytes written.
	Write(context.Context, Message) (int64, error)
}

// NewHeaderStream frames messages the way LSP does: a block of
// "Name: value" header lines ended by a blank line, followed by
// Content-Length bytes of JSON.
func NewHeaderStream(in io.Reader, out io.Writer) Stream {
	return &headerStream{
		in:  bufio.NewReader(in),
		out: out,
	}
}

type headerStream struct {
	in  *bufio.Reader
	out io.Writer
}

// header holds the fields of a header block that the stream cares about.
type header struct {
	length int64
}

// set records one header line. Unknown names, Content-Type included, are
// ignored.
func (h *header) set(line string) error {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("invalid header line %q", line)
	}
	if !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
		return nil
	}
	value = strings.TrimSpace(value)
	n, err := strconv.ParseInt(value, 10, 64)
	switch {
	case err != nil:
		return fmt.Errorf("failed parsing Content-Length: %v", value)
	case n <= 0:
		return fmt.Errorf("invalid Content-Length: %v", n)
	case n > MaxMessageSize:
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, n)
	}
	h.length = n
	return nil
}

// readHeader consumes lines up to and including the blank separator.
func (s *headerStream) readHeader() (header, int64, error) {
	var (
		h     header
		total int64
	)
	for {
		line, err := s.in.ReadString('\n')
		total += int64(len(line))
		if err != nil {
			// a clean EOF between messages ends the stream
			if errors.Is(err, io.EOF) && total == 0 {
				return h, 0, io.EOF
			}
			return h, total, fmt.Errorf("failed reading header line: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if err := h.set(line); err != nil {
			return h, total, err
		}
	}
	if h.length == 0 {
		return h, total, ErrMissingLength
	}
	return h, total, nil
}

func (s *headerStream) Read(ctx context.Context) (Message, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	h, total, err := s.readHeader()
	if err != nil {
		return nil, total, err
	}
	body := make([]byte, h.length)
	n, err := io.ReadFull(s.in, body)
	total += int64(n)
	if err != nil {
		return nil, total, fmt.Errorf("reading %d byte body: %w", h.length, err)
	}
	msg, err := DecodeMessage(body)
	return msg, total, err
}

func (s *headerStream) Write(ctx context.Context, msg Message) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshaling message: %w", err)
	}
	// header and body go out in a single Write
	frame := make([]byte, 0, len(body)+32)
	frame = append(frame, "Content-Length: "...)
	frame = strconv.AppendInt(frame, int64(len(body)), 10)
	frame = append(frame, "\r\n\r\n"...)
	frame = append(frame, body...)
	n, err := s.out.Write(frame)
	return int64(n), err
}
