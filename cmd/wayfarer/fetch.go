package main

import (
	"fmt"

	"github.com/spf13/cobra"

	stdnet "wayfarer/std/net"
)

func newFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch URL",
		Short: "Print the body of an http or https URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := stdnet.ParseAddress(args[0])
			if err != nil {
				return err
			}
			body, err := a.client.Fetch(cmd.Context(), addr)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}
}
