package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress_Defaults(t *testing.T) {
	tests := []struct {
		raw  string
		want Address
	}{
		{"http://example.org", Address{Scheme: "http", Host: "example.org", Port: 80, Path: "/"}},
		{"https://example.org", Address{Scheme: "https", Host: "example.org", Port: 443, Path: "/"}},
		{"http://example.org/index.html", Address{Scheme: "http", Host: "example.org", Port: 80, Path: "/index.html"}},
		{"https://example.org:8443/a/b?c=d", Address{Scheme: "https", Host: "example.org", Port: 8443, Path: "/a/b?c=d"}},
		{"http://localhost:8000", Address{Scheme: "http", Host: "localhost", Port: 8000, Path: "/"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAddress(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAddress_InvalidScheme(t *testing.T) {
	for _, raw := range []string{"ftp://example.org/", "example.org/index.html", "HTTP://example.org/", "file:///etc/passwd"} {
		_, err := ParseAddress(raw)
		assert.ErrorIs(t, err, ErrInvalidScheme, raw)
	}
}

func TestParseAddress_InvalidPort(t *testing.T) {
	for _, raw := range []string{"http://example.org:http/", "http://example.org:/", "https://example.org:99999/"} {
		_, err := ParseAddress(raw)
		assert.ErrorIs(t, err, ErrInvalidPort, raw)
	}
}

func TestParseAddress_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"http://example.org:80/",
		"https://example.org:443/path/to/page.html",
		"http://127.0.0.1:8080/x",
	} {
		addr, err := ParseAddress(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, addr.String())

		again, err := ParseAddress(addr.String())
		require.NoError(t, err)
		assert.Equal(t, addr, again)
	}
}

func TestAddress_WithPath(t *testing.T) {
	addr, err := ParseAddress("https://example.org:8443/old")
	require.NoError(t, err)

	moved := addr.WithPath("/new")
	assert.Equal(t, "https", moved.Scheme)
	assert.Equal(t, "example.org", moved.Host)
	assert.Equal(t, 8443, moved.Port)
	assert.Equal(t, "/new", moved.Path)
	assert.Equal(t, "/old", addr.Path, "original must not change")
}

func TestAddress_Resolve(t *testing.T) {
	base, err := ParseAddress("http://example.org:8080/start")
	require.NoError(t, err)

	rel, err := base.Resolve("/next")
	require.NoError(t, err)
	assert.Equal(t, Address{Scheme: "http", Host: "example.org", Port: 8080, Path: "/next"}, rel)

	abs, err := base.Resolve("https://other.example/landing")
	require.NoError(t, err)
	assert.Equal(t, Address{Scheme: "https", Host: "other.example", Port: 443, Path: "/landing"}, abs)

	_, err = base.Resolve("next")
	assert.ErrorIs(t, err, ErrInvalidScheme)
}

func TestAddress_Key(t *testing.T) {
	a, _ := ParseAddress("http://example.org/a")
	b, _ := ParseAddress("http://example.org/b")
	c, _ := ParseAddress("https://example.org/a")
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestIsNetworkURL(t *testing.T) {
	assert.True(t, IsNetworkURL("http://example.org"))
	assert.True(t, IsNetworkURL("https://example.org/x"))
	assert.False(t, IsNetworkURL("page.html"))
	assert.False(t, IsNetworkURL("ftp://example.org"))
}
