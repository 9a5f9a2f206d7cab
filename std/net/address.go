package net

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidScheme is returned for addresses without "://" or with a
	// scheme other than http or https.
	ErrInvalidScheme = errors.New("invalid scheme")
	// ErrInvalidPort is returned when the port after the host is not a number.
	ErrInvalidPort = errors.New("invalid port")
)

// Address is an absolute http or https URL split into its parts.
type Address struct {
	Scheme string
	Host   string
	Port   int
	Path   string
}

// PoolKey identifies the connection an Address is served over.
type PoolKey struct {
	Scheme string
	Host   string
	Port   int
}

func (k PoolKey) String() string {
	return fmt.Sprintf("%s://%s:%d", k.Scheme, k.Host, k.Port)
}

// ParseAddress parses scheme://host[:port][/path].
func ParseAddress(raw string) (Address, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Address{}, fmt.Errorf("%w: missing \"://\" in %q", ErrInvalidScheme, raw)
	}
	port, err := defaultPort(scheme)
	if err != nil {
		return Address{}, err
	}

	if !strings.Contains(rest, "/") {
		rest += "/"
	}
	host, path, _ := strings.Cut(rest, "/")

	if h, p, found := strings.Cut(host, ":"); found {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 65535 {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidPort, p)
		}
		host, port = h, n
	}

	return Address{
		Scheme: scheme,
		Host:   host,
		Port:   port,
		Path:   "/" + path,
	}, nil
}

func defaultPort(scheme string) (int, error) {
	switch scheme {
	case "http":
		return 80, nil
	case "https":
		return 443, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidScheme, scheme)
}

// WithPath returns a copy of a with the path replaced.
func (a Address) WithPath(path string) Address {
	a.Path = path
	return a
}

// Resolve returns the target of a redirect Location header. Locations
// starting with "/" stay on the same origin; anything else must be absolute.
func (a Address) Resolve(location string) (Address, error) {
	if strings.HasPrefix(location, "/") {
		return a.WithPath(location), nil
	}
	return ParseAddress(location)
}

// Key returns the connection pool key for a.
func (a Address) Key() PoolKey {
	return PoolKey{Scheme: a.Scheme, Host: a.Host, Port: a.Port}
}

// HostPort returns host:port suitable for dialing.
func (a Address) HostPort() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

func (a Address) String() string {
	return fmt.Sprintf("%s://%s:%d%s", a.Scheme, a.Host, a.Port, a.Path)
}

// IsNetworkURL reports whether s looks like an http or https URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
