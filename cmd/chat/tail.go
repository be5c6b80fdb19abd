package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/niazbuoy08/chat-app/internal/feed"
	"github.com/niazbuoy08/chat-app/internal/ui"
	"github.com/niazbuoy08/chat-app/internal/ui/console"
)

func newTailCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "Print the feed and follow new messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			c := console.New(cmd.ErrOrStderr(), false)
			view := feed.NewView(env.session, env.messages, console.NewPrinter(cmd.OutOrStdout()), c, c, env.logger)
			if err := view.Activate(cmd.Context()); err != nil {
				if errors.Is(err, feed.ErrNoIdentity) {
					return errors.New("not logged in; run chat login first")
				}
				return err
			}
			defer view.Teardown()

			// Follow until interrupted or the session ends elsewhere.
			signedOut := env.session.Watch(cmd.Context())
			defer signedOut.Cancel()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case route := <-c.Routes():
					if route == ui.RouteLogin {
						return errors.New("signed out")
					}
				case ev, ok := <-signedOut.Events():
					if !ok {
						return nil
					}
					if ev.Value == nil {
						return errors.New("signed out")
					}
				}
			}
		},
	}
}
