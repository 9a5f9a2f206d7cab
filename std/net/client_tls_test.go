package net

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	gonet "net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// The certificate is only accepted when ServerName is set to the dialed host.
func TestClient_HTTPS(t *testing.T) {
	var requests, conns atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		io.WriteString(w, "hello")
	}))
	srv.Config.ConnState = func(_ gonet.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	roots := x509.NewCertPool()
	roots.AddCert(srv.Certificate())
	client := NewClient(ClientConfig{TLSConfig: &tls.Config{RootCAs: roots}}, zaptest.NewLogger(t))
	t.Cleanup(client.Close)

	addr, err := ParseAddress(srv.URL + "/x")
	require.NoError(t, err)
	require.Equal(t, "https", addr.Scheme)

	for range 2 {
		body, err := client.Fetch(context.Background(), addr)
		require.NoError(t, err)
		assert.Equal(t, "hello", body)
	}
	assert.Equal(t, 1, client.Pool().Len())
	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, int32(1), conns.Load())
}

func TestClient_HTTPSUntrustedCertificate(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "hello")
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t)
	addr, err := ParseAddress(srv.URL + "/")
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), addr)
	var te *TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, "tls handshake", te.Op)
	assert.Equal(t, 0, client.Pool().Len())
}

// silentServer accepts connections and reads requests without ever replying.
func silentServer(t *testing.T) Address {
	t.Helper()
	ln, err := gonet.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()
	t.Cleanup(func() {
		ln.Close()
		<-done
	})
	addr, err := ParseAddress(fmt.Sprintf("http://%s/", ln.Addr()))
	require.NoError(t, err)
	return addr
}

func TestClient_ContextDeadline(t *testing.T) {
	addr := silentServer(t)
	client := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Fetch(ctx, addr)

	var te *TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, "read", te.Op)
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
	assert.Equal(t, 0, client.Pool().Len())
}

func TestClient_DeadlineClearedOnReuse(t *testing.T) {
	srv := newTestServer(t, func(path string, _ map[string]string) reply {
		return okReply(path)
	})
	client := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := client.Fetch(ctx, srv.addr(t, "/first"))
	require.NoError(t, err)

	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)

	body, err := client.Fetch(context.Background(), srv.addr(t, "/second"))
	require.NoError(t, err)
	assert.Equal(t, "/second", body)
	assert.Equal(t, int32(1), srv.accepted.Load())
}
