package net

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Response is a parsed HTTP/1.x response with its body fully read.
type Response struct {
	Version    string
	StatusCode int
	Reason     string
	// Headers maps lower-cased header names to trimmed values.
	Headers map[string]string
	Body    []byte
}

// IsRedirect reports whether the status is in [300, 400).
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// ReadResponse reads one response from r. Read failures are returned
// unwrapped so the caller can attach the connection they came from.
func ReadResponse(r *bufio.Reader) (*Response, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	resp, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: header line %q", ErrMalformedResponse, line)
		}
		resp.Headers[strings.ToLower(name)] = strings.TrimSpace(value)
	}

	for _, h := range []string{"transfer-encoding", "content-encoding"} {
		if v, ok := resp.Headers[h]; ok {
			return nil, fmt.Errorf("%w: %s: %s", ErrUnsupportedEncoding, h, v)
		}
	}

	length := 0
	if v, ok := resp.Headers["content-length"]; ok {
		length, err = strconv.Atoi(v)
		if err != nil || length < 0 {
			return nil, fmt.Errorf("%w: content-length %q", ErrMalformedResponse, v)
		}
	}
	resp.Body = make([]byte, length)
	if _, err := io.ReadFull(r, resp.Body); err != nil {
		return nil, err
	}
	return resp, nil
}

func parseStatusLine(line string) (*Response, error) {
	fields := strings.SplitN(strings.TrimRight(line, "\r\n"), " ", 3)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: status line %q", ErrMalformedResponse, line)
	}
	status, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: status %q", ErrMalformedResponse, fields[1])
	}
	resp := &Response{
		Version:    fields[0],
		StatusCode: status,
		Headers:    make(map[string]string),
	}
	if len(fields) == 3 {
		resp.Reason = fields[2]
	}
	return resp, nil
}
