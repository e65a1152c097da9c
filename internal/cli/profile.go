// AngelaMos | 2026
// profile.go

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/auth"
	"github.com/skadri1601/TradeSignal-sub000/internal/guard"
)

func newProfileCmd(app *App) *cobra.Command {
	var fullName, username string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fullName == "" && username == "" {
				return fmt.Errorf("nothing to update, pass --name or --username")
			}

			req := guard.Requirements{Location: "profile"}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			update := auth.UpdateProfileRequest{}
			if fullName != "" {
				update.FullName = &fullName
			}
			if username != "" {
				update.Username = &username
			}

			user, err := app.Auth.UpdateMe(cmd.Context(), update)
			if err != nil {
				return err
			}

			fmt.Printf("Profile updated: %s (%s)\n", user.Username, user.FullName)
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "display name")
	cmd.Flags().StringVar(&username, "username", "", "account username")

	return cmd
}
