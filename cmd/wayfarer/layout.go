package main

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wayfarer/pkg/render"
)

func newLayoutCmd(a *app) *cobra.Command {
	var (
		format string
		tree   bool
	)
	cmd := &cobra.Command{
		Use:   "layout FILE|URL",
		Short: "Print the positioned words of a document",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.layout(cmd.Context(), args[0], tree)
			if err != nil {
				return err
			}
			if format != formatText {
				return encode(cmd.OutOrStdout(), format, runs)
			}
			for _, r := range runs {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%7.2f %7.2f %-22s %s\n", r.X, r.Y, r.Font, r.Word); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&tree, "tree", false, "lay out through the parsed element tree")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		output    string
		tree      bool
		expect    string
		tolerance int
	)
	cmd := &cobra.Command{
		Use:   "render FILE|URL",
		Short: "Draw the visible part of a document to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := a.layout(cmd.Context(), args[0], tree)
			if err != nil {
				return err
			}
			r := render.NewRenderer(int(a.cfg.Layout.Width), a.cfg.Render.Height, a.fonts)
			drawn := r.Render(runs, a.cfg.Render.Scroll)
			if err := r.SavePNG(output); err != nil {
				return fmt.Errorf("saving %s: %w", output, err)
			}
			a.logger.Info("rendered page",
				zap.String("output", output),
				zap.Int("runs", len(runs)),
				zap.Int("drawn", drawn),
				zap.Float64("scroll", a.cfg.Render.Scroll))
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "rendered %d of %d words to %s\n", drawn, len(runs), output); err != nil {
				return err
			}
			if expect == "" {
				return nil
			}
			return checkFrame(cmd, r, expect, tolerance)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "out.png", "PNG file to write")
	flags.BoolVar(&tree, "tree", false, "lay out through the parsed element tree")
	flags.StringVar(&expect, "expect", "", "reference PNG the frame must match")
	flags.IntVar(&tolerance, "tolerance", 0, "per-channel difference (0-255) still counted as a match")
	flags.Float64("scroll", 0, "vertical scroll offset in pixels")
	flags.Int("height", 600, "viewport height in pixels")
	_ = a.v.BindPFlag("render.scroll", flags.Lookup("scroll"))
	_ = a.v.BindPFlag("render.height", flags.Lookup("height"))
	return cmd
}

// checkFrame compares the rendered frame against a reference PNG.
func checkFrame(cmd *cobra.Command, r *render.Renderer, path string, tolerance int) error {
	ref, err := gg.LoadPNG(path)
	if err != nil {
		return fmt.Errorf("loading reference %s: %w", path, err)
	}
	d, err := render.Compare(r.Image(), ref, tolerance)
	if err != nil {
		return fmt.Errorf("comparing with %s: %w", path, err)
	}
	if !d.Identical() {
		return fmt.Errorf("frame differs from %s: %d of %d pixels (max channel change %d)", path, d.Pixels, d.Total, d.MaxChange)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "matches %s\n", path)
	return err
}
