package store

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/otienod/zonedash/internal/profile"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertSnapshot is a test helper that inserts a snapshot with a
// controlled taken_at so ordering tests are deterministic.
func insertSnapshot(t *testing.T, s *Store, login string, takenAt time.Time, totalXP float64) string {
	t.Helper()
	id := uuid.New().String()
	stats := `{"totalXP":` + strconv.FormatFloat(totalXP, 'f', -1, 64) + `,"xpByCategory":{},"audits":{}}`
	_, err := s.db.Exec(
		`INSERT INTO snapshots (id, login, taken_at, stats) VALUES (?, ?, ?, ?)`,
		id, login, takenAt.UTC().Format(time.RFC3339), stats,
	)
	if err != nil {
		t.Fatalf("insert snapshot: %v", err)
	}
	return id
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/zonedash.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Session
// ============================================================

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveSession("a.b.c", "jdoe"); err != nil {
		t.Fatal(err)
	}
	sess, err := s.GetSession()
	if err != nil {
		t.Fatal(err)
	}
	if sess.Token != "a.b.c" || sess.Login != "jdoe" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestSessionReplaced(t *testing.T) {
	s := newTestStore(t)

	s.SaveSession("old.tok.en", "jdoe")
	s.SaveSession("new.tok.en", "jdoe")

	sess, err := s.GetSession()
	if err != nil {
		t.Fatal(err)
	}
	if sess.Token != "new.tok.en" {
		t.Fatalf("expected replacement, got %q", sess.Token)
	}

	var count int
	s.db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&count)
	if count != 1 {
		t.Fatalf("expected a single session row, got %d", count)
	}
}

func TestSessionMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSession()
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestClearSession(t *testing.T) {
	s := newTestStore(t)
	s.SaveSession("a.b.c", "jdoe")
	if err := s.ClearSession(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSession(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
	// Clearing again is fine.
	if err := s.ClearSession(); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// Snapshots
// ============================================================

func sampleStats() *profile.ProfileStatistics {
	raw := profile.RawProfile{
		ModuleXP: []profile.Transaction{
			{Type: "xp", Amount: 100, CreatedAt: "2024-01-01", Path: "/kisumu/module/a"},
		},
	}
	return profile.Compute(raw, profile.ComputeOptions{})
}

func TestSaveAndLatestSnapshot(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveSnapshot("jdoe", sampleStats())
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected snapshot id")
	}

	snap, err := s.LatestSnapshot("jdoe")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Login != "jdoe" || snap.Stats == nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Stats.TotalXP != 100 {
		t.Fatalf("stats did not survive storage: %+v", snap.Stats)
	}
	if snap.Stats.Audits.RatioString() != "N/A" {
		t.Fatalf("ratio sentinel lost: %q", snap.Stats.Audits.RatioString())
	}
}

func TestLatestSnapshotOrdering(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	insertSnapshot(t, s, "jdoe", base, 100)
	newest := insertSnapshot(t, s, "jdoe", base.Add(time.Hour), 200)
	insertSnapshot(t, s, "jdoe", base.Add(30*time.Minute), 150)

	snap, err := s.LatestSnapshot("jdoe")
	if err != nil {
		t.Fatal(err)
	}
	if snap.ID != newest {
		t.Fatalf("expected newest snapshot %s, got %s", newest, snap.ID)
	}
	if snap.Stats.TotalXP != 200 {
		t.Fatalf("expected newest stats, got %+v", snap.Stats)
	}
}

func TestLatestSnapshotMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LatestSnapshot("nobody")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestListSnapshots(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertSnapshot(t, s, "jdoe", base.Add(time.Duration(i)*time.Hour), float64(i))
	}
	insertSnapshot(t, s, "other", base, 999)

	snaps, err := s.ListSnapshots("jdoe", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].TakenAt.After(snaps[i-1].TakenAt) {
			t.Fatal("snapshots not newest-first")
		}
	}
	for _, snap := range snaps {
		if snap.Login != "jdoe" {
			t.Fatalf("foreign snapshot leaked: %+v", snap)
		}
	}
}

func TestPruneSnapshots(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		insertSnapshot(t, s, "jdoe", base.Add(time.Duration(i)*time.Hour), float64(i))
	}

	if err := s.PruneSnapshots("jdoe", 4); err != nil {
		t.Fatal(err)
	}

	snaps, err := s.ListSnapshots("jdoe", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 4 {
		t.Fatalf("expected 4 kept, got %d", len(snaps))
	}
	// The kept ones are the newest.
	if snaps[0].Stats.TotalXP != 9 {
		t.Fatalf("expected newest kept, got %+v", snaps[0].Stats)
	}
}
