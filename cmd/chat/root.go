package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/niazbuoy08/chat-app/internal/tui"
)

type options struct {
	serverURL   string
	localDB     string
	sessionFile string
	logFile     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "chat",
		Short: "Terminal chat client",
		Long: `chat signs in to the chat backend and shows the shared message feed.

Without a subcommand it starts the interactive client. The backend is reached
over HTTP unless --local names a database file, in which case an embedded
backend is used instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			return tui.Run(cmd.Context(), tui.Deps{
				Provider: env.provider,
				Messages: env.messages,
				Session:  env.session,
				Logger:   env.logger,
			})
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&opts.serverURL, "server", envOrDefault("CHAT_SERVER_URL", "http://localhost:8080"), "backend base URL")
	flags.StringVar(&opts.localDB, "local", envOrDefault("CHAT_LOCAL_DB", ""), "use an embedded backend stored in this SQLite file")
	flags.StringVar(&opts.sessionFile, "session-file", envOrDefault("CHAT_SESSION_FILE", defaultSessionFile()), "where the signed-in session is kept")
	flags.StringVar(&opts.logFile, "log-file", "", "write diagnostic logs to this file")

	root.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newSendCmd(opts),
		newTailCmd(opts),
	)
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chat", "session.json")
}
