package models

import (
	"sort"
	"strings"
)

// MethodKind is the normalized classification of a transaction method.
// Upstream sources disagree on naming (legacy lowercase vs. current
// uppercase), so classification goes through a single alias table instead
// of duplicate literal lists.
type MethodKind int

const (
	// KindOther counts toward totals but not toward buy/sell sentiment.
	KindOther MethodKind = iota
	// KindOpenMarket is an ordinary discretionary market trade.
	KindOpenMarket
	// KindNonTrade covers awards, gifts, tax withholding, conversions and
	// similar non-discretionary events. Excluded from sentiment entirely.
	KindNonTrade
)

func (k MethodKind) String() string {
	switch k {
	case KindOpenMarket:
		return "open_market"
	case KindNonTrade:
		return "non_trade"
	default:
		return "other"
	}
}

var methodAliases = map[string]MethodKind{
	"open_market":          KindOpenMarket,
	"open_market_purchase": KindOpenMarket,
	"open_market_sale":     KindOpenMarket,

	"award_or_grant":                   KindNonTrade,
	"award":                            KindNonTrade,
	"grant":                            KindNonTrade,
	"gift":                             KindNonTrade,
	"tax_withholding_or_exercise_cost": KindNonTrade,
	"tax_withholding":                  KindNonTrade,
	"conversion":                       KindNonTrade,
	"exercise":                         KindNonTrade,
	"option_exercise":                  KindNonTrade,
	"option_expiration":                KindNonTrade,
	"expiration":                       KindNonTrade,
	"transfer":                         KindNonTrade,
	"discretionary_transaction":        KindNonTrade,
}

// ClassifyMethod resolves a raw upstream method name to its normalized kind.
// Lookup is case-insensitive so a future naming convention that only changes
// casing cannot silently slip past the exclusion rules.
func ClassifyMethod(raw string) MethodKind {
	if raw == "" {
		return KindOther
	}
	if kind, ok := methodAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return kind
	}
	return KindOther
}

// MethodNames returns every known alias of the given kind, lowercased.
// Used to push method filtering into storage-side predicates.
func MethodNames(kind MethodKind) []string {
	var names []string
	for name, k := range methodAliases {
		if k == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// IsOpenMarket reports whether the method is an ordinary market trade.
func IsOpenMarket(method string) bool { return ClassifyMethod(method) == KindOpenMarket }

// IsNonTrade reports whether the method is excluded from sentiment.
func IsNonTrade(method string) bool { return ClassifyMethod(method) == KindNonTrade }

// CountsTowardSentiment reports whether a BUY/SELL with this method counts
// toward the buy/sell tallies. Anything not explicitly non-trade counts.
func CountsTowardSentiment(method string) bool { return ClassifyMethod(method) != KindNonTrade }
