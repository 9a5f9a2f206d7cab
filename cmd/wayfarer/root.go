package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wayfarer/internal/config"
	"wayfarer/internal/observability"
	"wayfarer/pkg/layout"
	"wayfarer/pkg/resource"
	"wayfarer/pkg/text"
	stdnet "wayfarer/std/net"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

// app holds what every subcommand shares once the root pre-run has loaded
// the configuration.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	logger *zap.Logger
	client *stdnet.Client
	fonts  *text.FontCache
}

func newRootCmd(a *app) *cobra.Command {
	a.v = config.New()

	root := &cobra.Command{
		Use:           "wayfarer",
		Short:         "wayfarer fetches web pages and lays out their text.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./wayfarer.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Float64("width", layout.DefaultWidth, "viewport width in pixels")
	_ = a.v.BindPFlag("logger.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("layout.width", flags.Lookup("width"))

	root.AddCommand(
		newFetchCmd(a),
		newTokensCmd(a),
		newTreeCmd(a),
		newLayoutCmd(a),
		newRenderCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Logger, zapcore.AddSync(cmd.ErrOrStderr()))

	a.client = stdnet.NewClient(stdnet.ClientConfig{
		PoolSize:     cfg.Network.PoolSize,
		MaxRedirects: cfg.Network.MaxRedirects,
		TLSConfig:    &tls.Config{InsecureSkipVerify: cfg.Network.InsecureSkipVerify},
	}, a.logger)

	a.fonts, err = text.NewFontCache(cfg.Fonts, a.logger)
	if err != nil {
		return fmt.Errorf("loading fonts: %w", err)
	}

	a.logger.Debug("starting", zap.String("version", Version), zap.String("command", cmd.Name()))
	return nil
}

func (a *app) close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) loader() *resource.Loader {
	return resource.NewLoader(a.client, a.fonts, a.cfg.Layout, a.logger)
}

// source returns the markup named by arg: fetched when arg is an http or
// https URL, read from disk otherwise.
func (a *app) source(ctx context.Context, arg string) (string, error) {
	if !stdnet.IsNetworkURL(arg) {
		b, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", arg, err)
		}
		return string(b), nil
	}
	addr, err := stdnet.ParseAddress(arg)
	if err != nil {
		return "", err
	}
	return a.client.Fetch(ctx, addr)
}

// layout lays out the document named by arg, through the node tree when
// tree is set and straight from the token stream otherwise.
func (a *app) layout(ctx context.Context, arg string, tree bool) ([]layout.Run, error) {
	l := a.loader()
	if stdnet.IsNetworkURL(arg) {
		addr, err := stdnet.ParseAddress(arg)
		if err != nil {
			return nil, err
		}
		if tree {
			return l.LayoutTree(ctx, addr)
		}
		return l.LayoutDocument(ctx, addr)
	}

	body, err := a.source(ctx, arg)
	if err != nil {
		return nil, err
	}
	if tree {
		return l.LayoutBodyTree(body)
	}
	return l.LayoutBody(body), nil
}
