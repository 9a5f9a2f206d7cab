package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wayfarer/pkg/html"
)

func newTokensCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokens FILE|URL",
		Short: "Print the token stream of a document",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.source(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tokens := html.Tokenize(body)
			if format != formatText {
				return encode(cmd.OutOrStdout(), format, tokens)
			}
			for _, tok := range tokens {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), tok); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE|URL",
		Short: "Print the element tree of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.source(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			doc, err := html.Parse(body)
			if err != nil {
				return err
			}
			return doc.Dump(cmd.OutOrStdout())
		},
	}
}
