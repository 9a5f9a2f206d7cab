package net

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	gonet "net"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const userAgent = "wayfarer/0.1"

// DefaultMaxRedirects is the redirect budget used by Fetch.
const DefaultMaxRedirects = 5

// Dialer opens transport connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (gonet.Conn, error)
}

// ClientConfig controls connection pooling and redirect handling.
type ClientConfig struct {
	PoolSize     int
	MaxRedirects int
	// TLSConfig is cloned for every https connection; ServerName is always
	// set to the host being dialed.
	TLSConfig *tls.Config
	Dialer    Dialer
}

// Client issues HTTP/1.0 GET requests over pooled keep-alive connections.
type Client struct {
	pool         *ConnPool
	dialer       Dialer
	tlsConfig    *tls.Config
	maxRedirects int
	logger       *zap.Logger
}

// NewClient creates a Client. Zero config fields select the defaults.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &gonet.Dialer{}
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	logger = logger.Named("http")
	return &Client{
		pool:         NewConnPool(cfg.PoolSize, logger),
		dialer:       cfg.Dialer,
		tlsConfig:    cfg.TLSConfig,
		maxRedirects: cfg.MaxRedirects,
		logger:       logger,
	}
}

// Pool exposes the client's connection pool.
func (c *Client) Pool() *ConnPool {
	return c.pool
}

// Close closes every pooled connection.
func (c *Client) Close() {
	c.pool.Close()
}

// Fetch retrieves the body at addr, following up to the configured number
// of redirects.
func (c *Client) Fetch(ctx context.Context, addr Address) (string, error) {
	return c.FetchWithBudget(ctx, addr, c.maxRedirects)
}

// FetchWithBudget retrieves the body at addr following at most budget
// redirects. When the budget runs out TooManyRedirectsBody is returned
// instead of an error.
func (c *Client) FetchWithBudget(ctx context.Context, addr Address, budget int) (string, error) {
	logger := c.logger.With(zap.String("fetch_id", uuid.NewString()))
	for {
		resp, err := c.roundTrip(ctx, addr, logger)
		if err != nil {
			logger.Debug("fetch failed", zap.Stringer("addr", addr), zap.Error(err))
			return "", err
		}

		if !resp.IsRedirect() {
			if !utf8.Valid(resp.Body) {
				return "", fmt.Errorf("%w: body of %s is not valid UTF-8", ErrMalformedResponse, addr)
			}
			logger.Info("fetched",
				zap.Stringer("addr", addr),
				zap.Int("status", resp.StatusCode),
				zap.Int("bytes", len(resp.Body)))
			return string(resp.Body), nil
		}

		if budget <= 0 {
			logger.Warn("redirect budget exhausted", zap.Stringer("addr", addr))
			return TooManyRedirectsBody, nil
		}
		location, ok := resp.Headers["location"]
		if !ok {
			return "", fmt.Errorf("%w: status %d from %s", ErrMalformedRedirect, resp.StatusCode, addr)
		}
		next, err := addr.Resolve(location)
		if err != nil {
			return "", fmt.Errorf("redirect from %s to %q: %w", addr, location, err)
		}
		logger.Debug("redirect",
			zap.Int("status", resp.StatusCode),
			zap.Stringer("from", addr),
			zap.Stringer("to", next))
		addr = next
		budget--
	}
}

// roundTrip sends one request and reads one response. The connection stays
// pooled on success and is dropped on any failure.
func (c *Client) roundTrip(ctx context.Context, addr Address, logger *zap.Logger) (*Response, error) {
	key := addr.Key()
	conn, reused := c.pool.Acquire(key)
	if !reused {
		var err error
		if conn, err = c.dial(ctx, addr); err != nil {
			return nil, err
		}
	}
	c.pool.Store(key, conn)
	logger.Debug("request", zap.Stringer("addr", addr), zap.Bool("reused", reused))

	resp, err := exchange(ctx, conn, addr)
	if err != nil {
		c.pool.Remove(key)
		return nil, err
	}
	if resp.Headers["connection"] == "close" {
		c.pool.Remove(key)
	}
	return resp, nil
}

func (c *Client) dial(ctx context.Context, addr Address) (*Conn, error) {
	raw, err := c.dialer.DialContext(ctx, "tcp", addr.HostPort())
	if err != nil {
		return nil, &TransportError{Op: "dial", Addr: addr.Key(), Err: err}
	}
	if addr.Scheme == "https" {
		cfg := &tls.Config{}
		if c.tlsConfig != nil {
			cfg = c.tlsConfig.Clone()
		}
		cfg.ServerName = addr.Host
		tc := tls.Client(raw, cfg)
		if err := tc.HandshakeContext(ctx); err != nil {
			_ = raw.Close()
			return nil, &TransportError{Op: "tls handshake", Addr: addr.Key(), Err: err}
		}
		raw = tc
	}
	return newConn(raw), nil
}

func exchange(ctx context.Context, conn *Conn, addr Address) (*Response, error) {
	// A zero deadline clears one left over from a previous request.
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, &TransportError{Op: "set deadline", Addr: addr.Key(), Err: err}
	}

	if _, err := io.WriteString(conn, requestText(addr)); err != nil {
		return nil, &TransportError{Op: "write", Addr: addr.Key(), Err: err}
	}

	resp, err := ReadResponse(conn.r)
	if err != nil {
		if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrUnsupportedEncoding) {
			return nil, fmt.Errorf("%s: %w", addr, err)
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &TransportError{Op: "read", Addr: addr.Key(), Err: err}
	}
	return resp, nil
}

func requestText(addr Address) string {
	return "GET " + addr.Path + " HTTP/1.0\r\n" +
		"Host: " + addr.Host + "\r\n" +
		"Connection: keep-alive\r\n" +
		"User-Agent: " + userAgent + "\r\n" +
		"\r\n"
}
