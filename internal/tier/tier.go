// AngelaMos | 2026
// tier.go

package tier

import (
	"strings"
)

// Tier is a closed subscription level with an explicit total order.
// Comparisons go through the rank, never through the string form.
type Tier int

const (
	Free Tier = iota
	Basic
	Plus
	Pro
	Enterprise
)

var tierNames = [...]string{
	Free:       "free",
	Basic:      "basic",
	Plus:       "plus",
	Pro:        "pro",
	Enterprise: "enterprise",
}

func (t Tier) String() string {
	if t < Free || t > Enterprise {
		return "free"
	}
	return tierNames[t]
}

// Parse maps a tier string from the backend to its rank. Unknown or
// empty strings fall back to Free.
func Parse(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return Basic
	case "plus":
		return Plus
	case "pro":
		return Pro
	case "enterprise":
		return Enterprise
	default:
		return Free
	}
}

// DefaultFeatures is the shipped gating table. Feature keys absent
// from the table are allowed at every tier.
var DefaultFeatures = map[string]Tier{
	"dashboard":        Free,
	"watchlist":        Free,
	"live_ticker":      Basic,
	"signal_alerts":    Basic,
	"advanced_charts":  Plus,
	"screener":         Plus,
	"api_access":       Pro,
	"bulk_export":      Pro,
	"priority_support": Pro,
	"team_seats":       Enterprise,
	"sso":              Enterprise,
}
