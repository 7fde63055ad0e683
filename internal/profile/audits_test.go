package profile

import "testing"

// ============================================================
// Transaction-derived audits
// ============================================================

func TestAuditTransactionsBasic(t *testing.T) {
	done := []Transaction{
		{Type: "up", Amount: 10, CreatedAt: "2024-01-01", Path: "/kisumu/module/a"},
		{Type: "up", Amount: 20, CreatedAt: "2024-01-02", Path: "/kisumu/module/b"},
	}
	received := []Transaction{
		{Type: "down", Amount: 10, CreatedAt: "2024-01-03", Path: "/kisumu/module/c"},
	}
	stats := AggregateAuditTransactions(done, received)

	if stats.Done.Count != 2 || !stats.Done.HasCount {
		t.Fatalf("done count: expected 2, got %+v", stats.Done)
	}
	if stats.Done.Amount != 30 {
		t.Fatalf("done amount: expected 30, got %v", stats.Done.Amount)
	}
	if stats.Received.Amount != 10 {
		t.Fatalf("received amount: expected 10, got %v", stats.Received.Amount)
	}
	if !stats.HasRatio || stats.Ratio != 3 {
		t.Fatalf("expected ratio 3, got %+v", stats)
	}
	if stats.RatioString() != "3.00" {
		t.Fatalf("expected \"3.00\", got %q", stats.RatioString())
	}
	if stats.Source != AuditSourceTransactions {
		t.Fatalf("expected transaction source, got %v", stats.Source)
	}
}

func TestAuditTransactionsZeroReceived(t *testing.T) {
	done := []Transaction{{Type: "up", Amount: 30, CreatedAt: "2024-01-01", Path: "/p"}}
	stats := AggregateAuditTransactions(done, nil)

	if stats.HasRatio {
		t.Fatal("ratio must be unknown when nothing was received")
	}
	if stats.RatioString() != "N/A" {
		t.Fatalf("expected \"N/A\", got %q", stats.RatioString())
	}
	if stats.Ratio != 0 {
		t.Fatalf("internal ratio should stay zero-valued, got %v", stats.Ratio)
	}
}

func TestAuditTransactionsIgnoresWrongTypes(t *testing.T) {
	done := []Transaction{
		{Type: "up", Amount: 5, CreatedAt: "2024-01-01", Path: "/p"},
		{Type: "xp", Amount: 1000, CreatedAt: "2024-01-01", Path: "/p"},
		{Type: "up", Amount: -3, CreatedAt: "2024-01-01", Path: "/p"},
	}
	stats := AggregateAuditTransactions(done, nil)
	if stats.Done.Count != 1 || stats.Done.Amount != 5 {
		t.Fatalf("expected only the valid up record, got %+v", stats.Done)
	}
}

func TestAuditTransactionsEmpty(t *testing.T) {
	stats := AggregateAuditTransactions(nil, nil)
	if stats.Done.Count != 0 || stats.Received.Count != 0 {
		t.Fatalf("expected zero counts, got %+v", stats)
	}
	if stats.RatioString() != "N/A" {
		t.Fatalf("expected \"N/A\", got %q", stats.RatioString())
	}
}

// ============================================================
// User-totals audits
// ============================================================

func TestAuditsFromUserTotals(t *testing.T) {
	u := User{TotalUp: 100, TotalUpBonus: 20, TotalDown: 60}
	stats := AuditsFromUserTotals(u)

	if stats.Done.Amount != 120 {
		t.Fatalf("done amount: expected 120, got %v", stats.Done.Amount)
	}
	if stats.Received.Amount != 60 {
		t.Fatalf("received amount: expected 60, got %v", stats.Received.Amount)
	}
	if stats.Done.HasCount || stats.Received.HasCount {
		t.Fatal("user-totals shape carries no counts")
	}
	if stats.Done.CountString() != "N/A" {
		t.Fatalf("expected count \"N/A\", got %q", stats.Done.CountString())
	}
	if !stats.HasRatio || stats.Ratio != 2 {
		t.Fatalf("expected ratio 2, got %+v", stats)
	}
	if stats.Source != AuditSourceUserTotals {
		t.Fatalf("expected user-totals source, got %v", stats.Source)
	}
}

func TestAuditsFromUserTotalsZeroDown(t *testing.T) {
	stats := AuditsFromUserTotals(User{TotalUp: 10})
	if stats.HasRatio {
		t.Fatal("division by zero must yield the sentinel, not a ratio")
	}
}

// ============================================================
// Open audits
// ============================================================

func TestCountOpenAudits(t *testing.T) {
	closed := "2024-01-05T00:00:00Z"
	audits := []Audit{
		{CreatedAt: "2024-01-01"},
		{CreatedAt: "2024-01-02", ClosedAt: &closed},
		{CreatedAt: "2024-01-03"},
	}
	if got := CountOpenAudits(audits); got != 2 {
		t.Fatalf("expected 2 open audits, got %d", got)
	}
	if got := CountOpenAudits(nil); got != 0 {
		t.Fatalf("expected 0 open audits, got %d", got)
	}
}
