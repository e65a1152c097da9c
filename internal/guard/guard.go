// AngelaMos | 2026
// guard.go

package guard

import (
	"time"

	"github.com/skadri1601/TradeSignal-sub000/internal/core"
	"github.com/skadri1601/TradeSignal-sub000/internal/session"
	"github.com/skadri1601/TradeSignal-sub000/internal/tier"
)

// DecisionKind is the single terminal render decision for a protected
// view. Exactly one applies; there is no partial content next to a
// blocking state.
type DecisionKind int

const (
	ShowLoading DecisionKind = iota
	ShowSyncError
	RedirectLogin
	ShowVerifyEmail
	ShowAccessDenied
	ShowUpgradePrompt
	RedirectAdmin
	RenderContent
)

func (k DecisionKind) String() string {
	switch k {
	case ShowLoading:
		return "loading"
	case ShowSyncError:
		return "sync_error"
	case RedirectLogin:
		return "redirect_login"
	case ShowVerifyEmail:
		return "verify_email"
	case ShowAccessDenied:
		return "access_denied"
	case ShowUpgradePrompt:
		return "upgrade_prompt"
	case RedirectAdmin:
		return "redirect_admin"
	case RenderContent:
		return "content"
	}
	return "unknown"
}

// Requirements declares what a protected view demands of the session.
type Requirements struct {
	// Location is the view being requested, preserved through the
	// login redirect for post-login return.
	Location string

	RequireVerified  bool
	RequireElevated  bool
	RedirectElevated bool

	// MinTier applies only when HasMinTier is set.
	MinTier    tier.Tier
	HasMinTier bool

	// RetryAfter, when positive, drives the auto-retry countdown on a
	// sync error screen.
	RetryAfter time.Duration
}

type Decision struct {
	Kind DecisionKind

	// ReturnTo accompanies RedirectLogin.
	ReturnTo string

	// Error accompanies ShowSyncError; Retryable mirrors its class.
	Error      *core.AppError
	Retryable  bool
	RetryAfter time.Duration

	// RequiredTier accompanies ShowUpgradePrompt.
	RequiredTier tier.Tier

	// DegradedBanner marks RenderContent that should carry the
	// dismissible offline-mode banner with a manual resync action.
	DegradedBanner bool
}

// Evaluate walks the fixed precedence order and returns the first
// branch that applies. Retry actions on the resulting views must call
// the session manager's resync path, never raw requests.
func Evaluate(
	snap session.Snapshot,
	resolver *tier.Resolver,
	req Requirements,
) Decision {
	if snap.IsLoading || snap.State == session.StateResolving {
		return Decision{Kind: ShowLoading}
	}

	if snap.SyncError != nil && !snap.IsAuthenticated {
		return Decision{
			Kind:       ShowSyncError,
			Error:      snap.SyncError,
			Retryable:  snap.SyncError.Retryable,
			RetryAfter: req.RetryAfter,
		}
	}

	if !snap.IsAuthenticated {
		return Decision{Kind: RedirectLogin, ReturnTo: req.Location}
	}

	if req.RequireVerified && !snap.User.IsVerified {
		return Decision{Kind: ShowVerifyEmail}
	}

	if req.RequireElevated && !snap.User.IsElevated() {
		return Decision{Kind: ShowAccessDenied}
	}

	if req.HasMinTier && !resolver.HasTier(tier.Parse(snap.Tier), req.MinTier) {
		return Decision{Kind: ShowUpgradePrompt, RequiredTier: req.MinTier}
	}

	if req.RedirectElevated && snap.User.IsElevated() {
		return Decision{Kind: RedirectAdmin}
	}

	return Decision{
		Kind:           RenderContent,
		DegradedBanner: snap.SyncError != nil && snap.SyncError.Retryable,
	}
}
