// AngelaMos | 2026
// admin.go

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/admin"
	"github.com/skadri1601/TradeSignal-sub000/internal/guard"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	cmd.AddCommand(
		newAdminUsersCmd(app),
		newAdminSetRoleCmd(app),
		newAdminSetTierCmd(app),
	)

	return cmd
}

func newAdminUsersCmd(app *App) *cobra.Command {
	var params admin.ListUsersParams

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{
				Location:        "admin",
				RequireElevated: true,
			}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			list, err := admin.NewClient(app.API).
				ListUsers(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Printf("%d users total\n\n", list.Total)
			for _, user := range list.Users {
				status := "active"
				if !user.IsActive {
					status = "inactive"
				}
				fmt.Printf("%-36s  %-24s  %-8s  %-10s  %s\n",
					user.ID,
					user.Email,
					user.Role,
					user.Tier,
					status,
				)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 20, "users per page")
	cmd.Flags().StringVar(&params.Search, "search", "", "filter by email or username")
	cmd.Flags().StringVar(&params.Role, "role", "", "filter by role")
	cmd.Flags().StringVar(&params.Tier, "tier", "", "filter by subscription tier")

	return cmd
}

func newAdminSetRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{
				Location:        "admin",
				RequireElevated: true,
			}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			user, err := admin.NewClient(app.API).
				UpdateUserRole(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("%s is now %s.\n", user.Email, user.Role)
			return nil
		},
	}
}

func newAdminSetTierCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-tier <user-id> <tier>",
		Short: "Change a user's subscription tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{
				Location:        "admin",
				RequireElevated: true,
			}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			user, err := admin.NewClient(app.API).
				UpdateUserTier(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("%s is now on the %s plan.\n", user.Email, user.Tier)
			return nil
		},
	}
}
