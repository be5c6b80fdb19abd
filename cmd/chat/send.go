package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/niazbuoy08/chat-app/internal/composer"
	"github.com/niazbuoy08/chat-app/internal/ui/console"
)

func newSendCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>...",
		Short: "Send a message as the signed-in user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			if env.session.Current() == nil {
				return errors.New("not logged in; run chat login first")
			}

			c := composer.New(env.session, env.messages, console.New(cmd.ErrOrStderr(), false), env.logger)
			c.SetDraft(strings.Join(args, " "))

			switch outcome := c.Send(cmd.Context()); outcome {
			case composer.Sent:
				fmt.Fprintln(cmd.OutOrStdout(), "Sent")
				return nil
			case composer.Skipped:
				return errors.New("nothing to send")
			case composer.Failed:
				return errReported
			default:
				return fmt.Errorf("send: %s", outcome)
			}
		},
	}
}
