package resource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wayfarer/pkg/html"
	"wayfarer/pkg/layout"
	stdnet "wayfarer/std/net"
)

// Loader runs the fetch, tokenize and layout pipeline for one viewport.
type Loader struct {
	fetcher Fetcher
	fonts   layout.FontSource
	cfg     layout.Config
	logger  *zap.Logger
}

func NewLoader(fetcher Fetcher, fonts layout.FontSource, cfg layout.Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher: fetcher,
		fonts:   fonts,
		cfg:     cfg,
		logger:  logger.Named("loader"),
	}
}

// WithWidth returns a loader for a different viewport width, sharing the
// fetcher and font cache. Shells call it when the window is resized.
func (l *Loader) WithWidth(width float64) *Loader {
	cp := *l
	cp.cfg.Width = width
	return &cp
}

// LayoutDocument fetches addr and lays out its tokens.
func (l *Loader) LayoutDocument(ctx context.Context, addr stdnet.Address) ([]layout.Run, error) {
	body, err := l.fetcher.Fetch(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", addr, err)
	}
	return l.LayoutBody(body), nil
}

// LayoutBody lays out markup that is already in hand.
func (l *Loader) LayoutBody(body string) []layout.Run {
	tokens := html.Tokenize(body)
	runs := layout.Layout(l.fonts, l.cfg, tokens)
	l.logger.Debug("laid out document", zap.Int("tokens", len(tokens)), zap.Int("runs", len(runs)))
	return runs
}

// LayoutURL parses raw and lays out the document it names.
func (l *Loader) LayoutURL(ctx context.Context, raw string) ([]layout.Run, error) {
	addr, err := stdnet.ParseAddress(raw)
	if err != nil {
		return nil, err
	}
	return l.LayoutDocument(ctx, addr)
}

// LayoutTree fetches addr, builds the node tree and lays the tree out.
func (l *Loader) LayoutTree(ctx context.Context, addr stdnet.Address) ([]layout.Run, error) {
	body, err := l.fetcher.Fetch(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", addr, err)
	}
	runs, err := l.LayoutBodyTree(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addr, err)
	}
	return runs, nil
}

// LayoutBodyTree parses body into a tree and lays the tree out.
func (l *Loader) LayoutBodyTree(body string) ([]layout.Run, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	runs := layout.NewEngine(l.fonts, l.cfg).LayoutDocument(doc)
	l.logger.Debug("laid out tree", zap.Int("nodes", doc.Len()), zap.Int("runs", len(runs)))
	return runs, nil
}
