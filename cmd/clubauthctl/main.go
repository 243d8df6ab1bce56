package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/clubauth/internal/session"
	"github.com/dropDatabas3/clubauth/internal/token"
)

// clubauthctl: CLI mínimo contra el Token Service. Mismo ciclo de vida que la
// SPA del panel (login / status / logout), con la sesión persistida en disco.

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "clubauth", "session.json")
	}
	return ".clubauth-session.json"
}

func printOut(format string, v any) {
	if format == "json" {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(p))
		return
	}
	switch t := v.(type) {
	case string:
		fmt.Println(t)
	default:
		p, _ := json.Marshal(v)
		fmt.Println(string(p))
	}
}

func main() {
	var (
		baseURL     = envOr("CLUBAUTH_URL", "http://localhost:8080")
		out         = envOr("CLUBAUTH_OUT", "text")
		sessionFile = envOr("CLUBAUTH_SESSION_FILE", defaultSessionPath())
	)

	root := &cobra.Command{
		Use:           "clubauthctl",
		Short:         "Cliente del servicio de sesiones admin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env CLUBAUTH_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")
	root.PersistentFlags().StringVar(&sessionFile, "session-file", sessionFile, "Archivo de sesión (env CLUBAUTH_SESSION_FILE)")

	newManager := func() *session.Manager {
		if err := os.MkdirAll(filepath.Dir(sessionFile), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		return session.NewManager(
			session.NewHTTPInvoker(baseURL),
			session.NewFileStore(sessionFile),
			token.SystemClock(),
		)
	}

	var username, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Autenticarse como admin y persistir la sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = envOr("CLUBAUTH_USERNAME", "")
			}
			if password == "" {
				password = envOr("CLUBAUTH_PASSWORD", "")
			}
			reader := bufio.NewReader(os.Stdin)
			if username == "" {
				fmt.Fprint(os.Stderr, "username: ")
				line, _ := reader.ReadString('\n')
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(os.Stderr, "password: ")
				line, _ := reader.ReadString('\n')
				password = strings.TrimSpace(line)
			}

			sess, err := newManager().LoginAsAdmin(cmd.Context(), username, password)
			if err != nil {
				var aerr *session.AuthError
				if errors.As(err, &aerr) {
					return fmt.Errorf("login failed [%s]: %s", aerr.Code, aerr.Message)
				}
				return err
			}
			if out == "json" {
				printOut(out, sess)
				return nil
			}
			printOut(out, fmt.Sprintf("ok, session valid until %s",
				time.UnixMilli(sess.ExpiresAt).Local().Format(time.RFC3339)))
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&username, "username", "u", "", "Username admin (env CLUBAUTH_USERNAME)")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password admin (env CLUBAUTH_PASSWORD)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Revalidar la sesión persistida contra el servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newManager()
			sess, err := m.CurrentSession(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil {
				printOut(out, "no session")
				os.Exit(1)
			}
			if !m.ValidateAdminSession(cmd.Context(), sess) {
				printOut(out, "session invalid or expired")
				os.Exit(1)
			}
			if out == "json" {
				// releer: validate puede haber refrescado el expiresAt
				refreshed, _ := m.CurrentSession(cmd.Context())
				if refreshed == nil {
					refreshed = sess
				}
				printOut(out, refreshed)
				return nil
			}
			printOut(out, "session valid")
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión local (y notificar al servicio best-effort)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newManager()
			var tok string
			if sess, _ := m.CurrentSession(cmd.Context()); sess != nil {
				tok = sess.Token
			}
			if err := m.LogoutAdminSession(cmd.Context(), tok); err != nil {
				return err
			}
			printOut(out, "logged out")
			return nil
		},
	}

	root.AddCommand(loginCmd, statusCmd, logoutCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
