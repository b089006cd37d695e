package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leemaz/leemaz/internal/config"
	"github.com/leemaz/leemaz/internal/i18n"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/internal/store"
	"github.com/leemaz/leemaz/internal/tui"
	"github.com/leemaz/leemaz/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the collaborators every command shares.
type app struct {
	cfg   config.Config
	log   *slog.Logger
	logs  io.Closer
	store store.Store
	api   *client.Client
	sess  *session.Manager
	prefs *i18n.Preferences
}

// newApp wires the collaborators. An ephemeral app keeps the session and
// preferences in memory and leaves the data dir untouched.
func newApp(ephemeral bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, logs, err := config.OpenLogger(cfg)
	if err != nil {
		return nil, err
	}

	var st store.Store = store.NewFileStore(cfg.DataDir)
	if ephemeral {
		st = store.NewMemory()
	}
	api := client.NewWithTimeout(cfg.APIURL, "", cfg.HTTPTimeout)
	sess := session.NewManager(api, st, log, session.Config{
		BootstrapTimeout: cfg.BootstrapTimeout,
		LoginTimeout:     cfg.LoginTimeout,
	})
	api.OnUnauthorized(sess.HandleUnauthorized)

	prefs := i18n.New(st, log)
	prefs.Load()

	log.Debug("app ready", "api_url", cfg.APIURL, "data_dir", cfg.DataDir, "ephemeral", ephemeral)
	return &app{cfg: cfg, log: log, logs: logs, store: st, api: api, sess: sess, prefs: prefs}, nil
}

func (a *app) Close() error {
	a.sess.Teardown()
	return a.logs.Close()
}

// withApp builds the shared collaborators for the duration of one command.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ephemeral, _ := cmd.Flags().GetBool("ephemeral")
		a, err := newApp(ephemeral)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck
		return fn(cmd, args, a)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leemaz",
		Short: "Leemaz marketplace in your terminal",
		Long: `Leemaz connects Syrian women sellers with buyers.

Running leemaz with no arguments opens the interactive marketplace. Your
session is restored from ~/.leemaz (override with LEEMAZ_HOME); if the
server cannot be reached the last known profile is used offline.`,
		SilenceUsage: true,
		RunE:         withApp(runTUI),
	}
	cmd.PersistentFlags().Bool("ephemeral", false, "keep the session and preferences in memory instead of the data dir")

	cmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		registerCmd(),
		verifyCmd(),
		whoamiCmd(),
		openCmd(),
		configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "leemaz "+version)
			},
		},
	)
	return cmd
}

func runTUI(cmd *cobra.Command, _ []string, a *app) error {
	p := tea.NewProgram(tui.NewApp(a.api, a.sess, a.prefs, version),
		tea.WithAltScreen(),
		tea.WithContext(ctxOf(cmd)),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
