package resource

import (
	"context"

	stdnet "wayfarer/std/net"
)

// Fetcher retrieves a document body by address. *net.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, addr stdnet.Address) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, addr stdnet.Address) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, addr stdnet.Address) (string, error) {
	return f(ctx, addr)
}
