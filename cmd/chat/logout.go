package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niazbuoy08/chat-app/internal/feed"
	"github.com/niazbuoy08/chat-app/internal/ui/console"
)

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			if env.session.Current() == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			ui := console.New(cmd.ErrOrStderr(), false)
			view := feed.NewView(env.session, env.messages, console.NewPrinter(cmd.OutOrStdout()), ui, ui, env.logger)
			if err := view.SignOut(cmd.Context()); err != nil {
				return errReported
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
