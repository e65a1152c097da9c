// AngelaMos | 2026
// tickets.go

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skadri1601/TradeSignal-sub000/internal/guard"
	"github.com/skadri1601/TradeSignal-sub000/internal/tickets"
)

func newTicketsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Support tickets",
	}

	cmd.AddCommand(
		newTicketsListCmd(app),
		newTicketsCreateCmd(app),
		newTicketsShowCmd(app),
		newTicketsCommentCmd(app),
	)

	return cmd
}

func newTicketsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your support tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{Location: "tickets"}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			list, err := tickets.NewClient(app.API).List(cmd.Context())
			if err != nil {
				return err
			}

			if len(list) == 0 {
				fmt.Println("No tickets.")
				return nil
			}

			for _, ticket := range list {
				fmt.Printf("%s  [%s]  %s  (%s)\n",
					ticket.ID[:8],
					ticket.Status,
					ticket.Subject,
					ticket.UpdatedAt.Format(time.DateOnly),
				)
			}

			return nil
		},
	}
}

func newTicketsCreateCmd(app *App) *cobra.Command {
	var subject, body string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new support ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{
				Location:        "tickets",
				RequireVerified: true,
			}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			ticket, err := tickets.NewClient(app.API).
				Create(cmd.Context(), tickets.CreateTicketRequest{
					Subject: subject,
					Body:    body,
				})
			if err != nil {
				return err
			}

			fmt.Printf("Ticket %s created.\n", ticket.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "ticket subject")
	cmd.Flags().StringVar(&body, "body", "", "ticket description")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newTicketsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Show a ticket's conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{Location: "tickets"}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			comments, err := tickets.NewClient(app.API).
				Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, comment := range comments {
				fmt.Printf("[%s] %s\n%s\n\n",
					comment.CreatedAt.Format(time.DateTime),
					comment.Author,
					comment.Body,
				)
			}

			return nil
		},
	}
}

func newTicketsCommentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <ticket-id> <message>",
		Short: "Reply on a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := guard.Requirements{Location: "tickets"}
			if err := requireSession(app, cmd, req); err != nil {
				return err
			}

			comment, err := tickets.NewClient(app.API).
				AddComment(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("Reply posted at %s.\n",
				comment.CreatedAt.Format(time.DateTime))
			return nil
		},
	}
}
