// AngelaMos | 2026
// views.go

package tui

import (
	"fmt"
	"strings"

	"github.com/skadri1601/TradeSignal-sub000/internal/guard"
)

func (d Dashboard) View() string {
	if d.quitting {
		return ""
	}

	decision := d.decide()

	switch decision.Kind {
	case guard.ShowLoading:
		return d.styles.Border.Render(
			d.spin.View() + " Restoring your session...",
		)

	case guard.ShowSyncError:
		return d.viewSyncError(decision)

	case guard.RedirectLogin:
		return d.styles.Border.Render(strings.Join([]string{
			d.styles.Title.Render("Sign in required"),
			"You are not signed in.",
			d.styles.Muted.Render(
				"Run `tradesignal login` and reopen " + decision.ReturnTo + ".",
			),
			d.styles.Help.Render("q quit"),
		}, "\n"))

	case guard.ShowVerifyEmail:
		return d.styles.Border.Render(strings.Join([]string{
			d.styles.Title.Render("Verify your email"),
			"We sent a verification link to your inbox.",
			"The dashboard unlocks once your address is confirmed.",
			d.styles.Help.Render("r re-check  q quit"),
		}, "\n"))

	case guard.ShowAccessDenied:
		return d.styles.Border.Render(strings.Join([]string{
			d.styles.Error.Render("Access denied"),
			"This area is restricted to support and admin accounts.",
			d.styles.Help.Render("q quit"),
		}, "\n"))

	case guard.ShowUpgradePrompt:
		return d.styles.Border.Render(strings.Join([]string{
			d.styles.Title.Render("Upgrade required"),
			fmt.Sprintf(
				"This view needs the %s plan or higher.",
				decision.RequiredTier,
			),
			d.styles.Muted.Render("Run `tradesignal billing upgrade` to change plans."),
			d.styles.Help.Render("q quit"),
		}, "\n"))

	case guard.RedirectAdmin:
		return d.styles.Border.Render(strings.Join([]string{
			d.styles.Title.Render("Admin account"),
			"Elevated accounts use the admin console instead.",
			d.styles.Muted.Render("Run `tradesignal admin users`."),
			d.styles.Help.Render("q quit"),
		}, "\n"))

	default:
		return d.viewContent(decision)
	}
}

func (d Dashboard) viewSyncError(decision guard.Decision) string {
	lines := []string{
		d.styles.Error.Render("Connection problem"),
		decision.Error.Message,
	}

	if decision.Retryable {
		lines = append(lines, d.styles.Muted.Render(
			fmt.Sprintf("Retrying automatically in %ds...", d.countdown),
		))
		lines = append(lines, d.styles.Help.Render("r retry now  q quit"))
	} else {
		lines = append(lines, d.styles.Help.Render("q quit, then sign in again"))
	}

	return d.styles.Border.Render(strings.Join(lines, "\n"))
}

func (d Dashboard) viewContent(decision guard.Decision) string {
	var b strings.Builder

	if decision.DegradedBanner && !d.bannerDismissed {
		b.WriteString(d.styles.Banner.Render(
			"Live data is degraded, showing the last good snapshot.  r resync  x dismiss",
		))
		b.WriteString("\n\n")
	}

	snap := d.manager.Snapshot()
	b.WriteString(d.styles.Title.Render("TradeSignal"))
	b.WriteString("\n")
	if snap.User != nil {
		b.WriteString(d.styles.Subtitle.Render(fmt.Sprintf(
			"%s · %s plan",
			snap.User.Email,
			snap.Tier,
		)))
		b.WriteString("\n\n")
	}

	b.WriteString(d.viewMarket())
	b.WriteString(d.viewUsage())
	b.WriteString(d.viewNews())

	b.WriteString(d.styles.Help.Render("r resync  q quit"))
	return b.String()
}

func (d Dashboard) viewMarket() string {
	var b strings.Builder

	if d.marketStatus != nil {
		if d.marketStatus.IsOpen {
			b.WriteString(d.styles.Success.Render("● Market open"))
		} else {
			b.WriteString(d.styles.Muted.Render("○ Market closed"))
		}
		b.WriteString("\n\n")
	}

	if len(d.quotes) == 0 {
		b.WriteString(d.styles.Muted.Render("Waiting for quotes..."))
		b.WriteString("\n\n")
		return b.String()
	}

	for _, quote := range d.quotes {
		style := d.styles.Up
		arrow := "▲"
		if quote.Change < 0 {
			style = d.styles.Down
			arrow = "▼"
		}

		b.WriteString(fmt.Sprintf(
			"%-6s %10.2f  %s\n",
			quote.Symbol,
			quote.Price,
			style.Render(fmt.Sprintf(
				"%s %.2f (%.2f%%)",
				arrow,
				quote.Change,
				quote.ChangePercent,
			)),
		))
	}
	b.WriteString("\n")

	return b.String()
}

func (d Dashboard) viewUsage() string {
	if d.usage == nil {
		return ""
	}

	return fmt.Sprintf(
		"API calls: %d of %d used, %d remaining\n\n",
		d.usage.APICallsUsed,
		d.usage.APICallsLimit,
		d.usage.Remaining(),
	)
}

func (d Dashboard) viewNews() string {
	if len(d.headlines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(d.styles.Subtitle.Render("Headlines"))
	b.WriteString("\n")
	for _, headline := range d.headlines {
		b.WriteString(fmt.Sprintf(
			"  %s %s\n",
			d.styles.Muted.Render("·"),
			headline.Title,
		))
	}
	b.WriteString("\n")

	return b.String()
}
