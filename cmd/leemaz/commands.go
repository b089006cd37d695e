package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/leemaz/leemaz/internal/browser"
	"github.com/leemaz/leemaz/internal/config"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/internal/store"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// prompter reads missing flag values from the command's input.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}
}

// value returns current if set, otherwise asks for it.
func (p *prompter) value(current, label string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprintf(p.cmd.OutOrStdout(), "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	v := strings.TrimSpace(line)
	if v == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return v, nil
}

// secret is value without echo when the input is a terminal.
func (p *prompter) secret(current, label string) (string, error) {
	if current != "" {
		return current, nil
	}
	f, ok := p.cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return p.value("", label)
	}
	fmt.Fprintf(p.cmd.OutOrStdout(), "%s: ", label)
	b, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(p.cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return string(b), nil
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in to Leemaz. Missing values are prompted for.

Examples:
  leemaz login --email rania@example.com
  leemaz login --email demo@leemaz.com --password demo123`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			p := newPrompter(cmd)
			addr, err := p.value(email, "Email")
			if err != nil {
				return err
			}
			pw, err := p.secret(password, "Password")
			if err != nil {
				return err
			}
			if err := a.sess.Login(ctxOf(cmd), addr, pw); err != nil {
				return err
			}
			printSignedIn(cmd.OutOrStdout(), *a.sess.Current(), a.sess.Origin())
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear your session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			_, ok, err := a.store.Get(store.KeyAuthToken)
			if err == nil && !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Already logged out.")
				return nil
			}
			a.sess.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		}),
	}
}

func registerCmd() *cobra.Command {
	var req client.RegisterRequest
	var role, lang string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a buyer or seller account",
		Long: `Create a Leemaz account. A verification code is emailed to you;
confirm it with "leemaz verify" to receive your welcome credits.

Examples:
  leemaz register --email hala@example.com --name "Hala K" --role seller --language ar`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			req.UserType = domain.Role(role)
			if !req.UserType.Valid() || req.UserType == domain.RoleAdmin {
				return fmt.Errorf("--role must be buyer or seller, got %q", role)
			}
			req.Language = domain.Language(lang)
			if lang == "" {
				req.Language = a.prefs.Language()
			}
			if !req.Language.Valid() {
				return fmt.Errorf("--language must be en or ar, got %q", lang)
			}

			p := newPrompter(cmd)
			var err error
			if req.FullName, err = p.value(req.FullName, "Full name"); err != nil {
				return err
			}
			if req.Email, err = p.value(req.Email, "Email"); err != nil {
				return err
			}
			if req.Password, err = p.secret(req.Password, "Password"); err != nil {
				return err
			}

			if err := a.sess.Register(ctxOf(cmd), req); err != nil {
				return fmt.Errorf("register: %s", client.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s.\nCheck your email, then run: leemaz verify --email %s\n", req.Email, req.Email)
			return nil
		}),
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleBuyer), "buyer or seller")
	cmd.Flags().StringVar(&lang, "language", "", "en or ar (defaults to the saved preference)")
	return cmd
}

func verifyCmd() *cobra.Command {
	var email, code string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm your email with the emailed code",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			p := newPrompter(cmd)
			addr, err := p.value(email, "Email")
			if err != nil {
				return err
			}
			otp, err := p.value(code, "Verification code")
			if err != nil {
				return err
			}
			if err := a.sess.VerifyEmail(ctxOf(cmd), addr, otp); err != nil {
				return fmt.Errorf("verify: %s", client.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Email verified. %d credits added to your account.\n", domain.VerificationBonus)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&code, "code", "", "verification code from the email")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			w := cmd.OutOrStdout()
			if a.sess.Bootstrap(ctxOf(cmd)) != session.LoggedIn {
				printWelcome(w)
			} else {
				printSignedIn(w, *a.sess.Current(), a.sess.Origin())
			}
			reportServer(ctxOf(cmd), w, a)
			return nil
		}),
	}
}

// reportServer prints whether the backend answers its health check.
func reportServer(ctx context.Context, w io.Writer, a *app) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.BootstrapTimeout)
	defer cancel()
	state := "reachable"
	if err := a.api.Health(ctx); err != nil {
		a.log.Info("health check failed", "op", "whoami", "err", err)
		state = "unreachable"
	}
	fmt.Fprintf(w, "Server: %s (%s)\n", a.cfg.APIURL, state)
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings",
		Long: `Show the settings in effect: defaults, then config.yaml in the data
directory, then LEEMAZ_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-18s %s\n", "data_dir", cfg.DataDir)
			for _, k := range config.Keys {
				v, _ := cfg.Get(k)
				fmt.Fprintf(w, "%-18s %s\n", k, v)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a setting in config.yaml",
		ValidArgs: config.Keys,
		Args:      cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadFile(config.DataDir())
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			v, _ := cfg.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v)
			return nil
		},
	})
	return cmd
}

// pages are the site links "leemaz open" knows about.
var pages = map[string]string{
	"terms":   "https://leemaz.com/terms",
	"privacy": "https://leemaz.com/privacy",
	"sellers": "https://leemaz.com/sellers",
	"website": "https://leemaz.com",
}

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "open <terms|privacy|sellers|website>",
		Short:     "Open a Leemaz page in your browser",
		ValidArgs: []string{"terms", "privacy", "sellers", "website"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := pages[args[0]]
			if err := browser.Open(url); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}
}
