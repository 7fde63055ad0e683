package profile

import "fmt"

// AuditSource records which upstream shape an AuditStats came from.
type AuditSource int

const (
	AuditSourceNone AuditSource = iota
	AuditSourceTransactions
	AuditSourceUserTotals
)

func (s AuditSource) String() string {
	switch s {
	case AuditSourceTransactions:
		return "transactions"
	case AuditSourceUserTotals:
		return "user-totals"
	default:
		return "none"
	}
}

// AuditSide is one direction of auditing. HasCount is false when the
// source shape carries amounts but no per-audit records, in which case
// Count must not be shown as a number.
type AuditSide struct {
	Count    int     `json:"count"`
	HasCount bool    `json:"hasCount"`
	Amount   float64 `json:"amount"`
}

// AuditStats is the aggregated audit facet. HasRatio is false when the
// received amount is zero; the ratio must then display as the "N/A"
// sentinel, never 0 or Inf.
type AuditStats struct {
	Done     AuditSide   `json:"done"`
	Received AuditSide   `json:"received"`
	Ratio    float64     `json:"ratio"`
	HasRatio bool        `json:"hasRatio"`
	Source   AuditSource `json:"source"`
}

// RatioString formats the ratio to two decimals for display, keeping
// full precision in Ratio itself.
func (a AuditStats) RatioString() string {
	if !a.HasRatio {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", a.Ratio)
}

// CountString formats one side's count, honoring the unknown-count case.
func (s AuditSide) CountString() string {
	if !s.HasCount {
		return "N/A"
	}
	return fmt.Sprintf("%d", s.Count)
}

// AggregateAuditTransactions derives audit stats from per-audit
// transactions: "up" records are audits the user performed, "down"
// records are audits received. Records of any other type, and records
// with negative amounts, are ignored.
func AggregateAuditTransactions(done, received []Transaction) AuditStats {
	stats := AuditStats{Source: AuditSourceTransactions}
	stats.Done = sumSide(done, "up")
	stats.Received = sumSide(received, "down")
	return withRatio(stats)
}

// AuditsFromUserTotals derives audit stats from the pre-aggregated
// totalUp/totalUpBonus/totalDown fields on the user record. This shape
// carries no counts.
func AuditsFromUserTotals(u User) AuditStats {
	stats := AuditStats{
		Source:   AuditSourceUserTotals,
		Done:     AuditSide{Amount: u.TotalUp + u.TotalUpBonus},
		Received: AuditSide{Amount: u.TotalDown},
	}
	return withRatio(stats)
}

// CountOpenAudits counts audits that are still open (closedAt null).
func CountOpenAudits(audits []Audit) int {
	open := 0
	for _, a := range audits {
		if a.ClosedAt == nil {
			open++
		}
	}
	return open
}

func sumSide(txns []Transaction, wantType string) AuditSide {
	side := AuditSide{HasCount: true}
	for _, txn := range txns {
		if txn.Type != wantType || txn.Amount < 0 {
			continue
		}
		side.Count++
		side.Amount += txn.Amount
	}
	return side
}

func withRatio(stats AuditStats) AuditStats {
	if stats.Received.Amount > 0 {
		stats.Ratio = stats.Done.Amount / stats.Received.Amount
		stats.HasRatio = true
	}
	return stats
}
