package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/niazbuoy08/chat-app/internal/auth"
	"github.com/niazbuoy08/chat-app/internal/ui/console"
)

func newLoginCmd(opts *options) *cobra.Command {
	var (
		email    string
		register bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in, or create an account with --register",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.ErrOrStderr()

			if email == "" {
				fmt.Fprint(out, "Email: ")
				line, err := in.ReadString('\n')
				if err != nil && err != io.EOF {
					return fmt.Errorf("read email: %w", err)
				}
				email = strings.TrimRight(line, "\r\n")
			}

			password, err := readSecret(in, out, "Password: ")
			if err != nil {
				return err
			}

			env, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			ui := console.New(out, false)
			screen := auth.Screen{
				Provider:  env.provider,
				Session:   env.session,
				Navigator: ui,
				Notifier:  ui,
				Confirmer: ui,
				Logger:    env.logger,
			}

			if register {
				confirm, err := readSecret(in, out, "Confirm Password: ")
				if err != nil {
					return err
				}
				if err := auth.NewRegister(screen).Submit(cmd.Context(), email, password, confirm); err != nil {
					return errReported
				}
			} else {
				if err := auth.NewLogin(screen).Submit(cmd.Context(), email, password); err != nil {
					return errReported
				}
			}

			if id := env.session.Current(); id != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", id.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().BoolVar(&register, "register", false, "create a new account")
	return cmd
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
