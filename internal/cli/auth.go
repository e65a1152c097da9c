// AngelaMos | 2026
// auth.go

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/auth"
	"github.com/skadri1601/TradeSignal-sub000/internal/session"
	"github.com/skadri1601/TradeSignal-sub000/internal/tui"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to TradeSignal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				creds, err := tui.PromptLogin()
				if err != nil {
					return err
				}
				email = creds.Email
				password = creds.Password
			}

			if err := app.Manager.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			snap := app.Manager.Snapshot()
			if snap.ProfileLoaded {
				fmt.Printf("Signed in as %s (%s plan).\n", snap.User.Email, snap.Tier)
			} else {
				// Credentials accepted; the profile will sync lazily.
				fmt.Println("Signed in. Profile sync pending.")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a TradeSignal account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				creds, err := tui.PromptRegister()
				if err != nil {
					return err
				}
				email = creds.Email
				username = creds.Username
				password = creds.Password
			}
			if username == "" {
				username = email
			}

			err := app.Manager.Register(cmd.Context(), email, username, password)
			if err != nil {
				return err
			}

			fmt.Printf("Account created. Signed in as %s.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "display username")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Manager.Logout()
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and backend status",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Manager.Init(cmd.Context())
			snap := app.Manager.Snapshot()

			if !snap.IsAuthenticated {
				fmt.Println("Not signed in.")
				if snap.SyncError != nil {
					fmt.Printf("Last sync problem: %s\n", snap.SyncError.Message)
				}
				if snap.CredentialsAccepted {
					fmt.Println("Stored credentials are valid; profile sync is pending.")
				}
				return nil
			}

			printUser(snap)

			if token := app.Manager.AccessToken(); token != "" {
				if exp, ok := auth.TokenExpiry(token); ok {
					fmt.Printf("Access token expires in %s.\n",
						time.Until(exp).Round(time.Second))
				}
			}

			if _, err := app.API.Health(cmd.Context()); err != nil {
				fmt.Println("Backend: unreachable")
			} else {
				fmt.Println("Backend: ok")
			}

			return nil
		},
	}
}

func printUser(snap session.Snapshot) {
	fmt.Printf("Signed in as %s\n", snap.User.Email)
	fmt.Printf("  username: %s\n", snap.User.Username)
	fmt.Printf("  plan:     %s\n", snap.Tier)
	fmt.Printf("  role:     %s\n", snap.User.Role)
	if !snap.User.IsVerified {
		fmt.Println("  email:    not verified")
	}
}
