package profile

import (
	"sort"
	"strings"
	"time"
)

// UncategorizedXP is the implicit bucket for XP transactions whose
// path matches no category matcher. They still count toward the total.
const UncategorizedXP = "uncategorized"

// CategoryMatcher partitions XP transactions by path. Matchers are
// expected to be mutually exclusive by construction.
type CategoryMatcher struct {
	Name  string
	Match func(path string) bool
}

// DefaultMatchers reproduces the platform's category split: module XP
// versus the per-language piscines. campus is the leading path segment,
// e.g. "kisumu" for paths like /kisumu/module/....
func DefaultMatchers(campus string) []CategoryMatcher {
	modulePrefix := "/" + campus + "/module/"
	piscine := func(name string) CategoryMatcher {
		needle := "piscine-" + name
		return CategoryMatcher{
			Name:  needle,
			Match: func(path string) bool { return strings.Contains(path, needle) },
		}
	}
	return []CategoryMatcher{
		{
			Name: "module",
			Match: func(path string) bool {
				return strings.HasPrefix(path, modulePrefix) && !strings.Contains(path, "piscine")
			},
		},
		piscine("go"),
		piscine("js"),
		piscine("ux"),
		piscine("ui"),
		piscine("rust"),
	}
}

// XPPoint is one step of the cumulative XP timeline.
type XPPoint struct {
	When       time.Time `json:"when"`
	Amount     float64   `json:"amount"`
	Cumulative float64   `json:"cumulative"`
}

// XPStats is the aggregated XP facet of a profile.
type XPStats struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
	Timeline   []XPPoint          `json:"timeline"`
}

// AggregateXP sums and time-orders XP-bearing transactions.
//
// Only type=="xp" records participate. Records whose createdAt does not
// parse, or whose amount is negative, are dropped silently: malformed
// upstream data is expected and must never be fatal. The timeline is
// sorted ascending by timestamp with a stable sort, so ties keep the
// input's relative order and the output is deterministic.
func AggregateXP(txns []Transaction, matchers []CategoryMatcher) XPStats {
	stats := XPStats{ByCategory: make(map[string]float64)}

	type stamped struct {
		txn  Transaction
		when time.Time
	}
	var kept []stamped
	for _, txn := range txns {
		if txn.Type != "xp" || txn.Amount < 0 {
			continue
		}
		when, ok := txn.Time()
		if !ok {
			continue
		}
		kept = append(kept, stamped{txn: txn, when: when})
	}
	if len(kept) == 0 {
		return stats
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].when.Before(kept[j].when)
	})

	stats.Timeline = make([]XPPoint, 0, len(kept))
	for _, s := range kept {
		stats.Total += s.txn.Amount
		stats.ByCategory[categorize(s.txn.Path, matchers)] += s.txn.Amount
		stats.Timeline = append(stats.Timeline, XPPoint{
			When:       s.when,
			Amount:     s.txn.Amount,
			Cumulative: stats.Total,
		})
	}
	return stats
}

func categorize(path string, matchers []CategoryMatcher) string {
	for _, m := range matchers {
		if m.Match != nil && m.Match(path) {
			return m.Name
		}
	}
	return UncategorizedXP
}
