package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func match(variant string, human, ai int) MatchRecord {
	winner := WinnerDraw
	switch {
	case human > ai:
		winner = WinnerHuman
	case ai > human:
		winner = WinnerAI
	}
	return MatchRecord{
		Variant:    variant,
		Radius:     2,
		Seed:       7,
		Difficulty: "normal",
		Source:     "tui",
		HumanScore: human,
		AIScore:    ai,
		Winner:     winner,
		Moves:      30,
		Duration:   90 * time.Second,
		AISearches: 10,
		AINodes:    5000,
		AITTProbes: 400,
		AITTHits:   100,
		AIMaxDepth: 3,
		AIThink:    1500 * time.Millisecond,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoadMatch(t *testing.T) {
	store := openTestStore(t)

	want := match("hexhunt-r2", 9, 4)
	id, err := store.SaveMatch(want)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	got, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() = nil, expected the saved match")
	}

	want.ID = id
	want.CreatedAt = got.CreatedAt
	if *got != want {
		t.Errorf("MatchByID() = %+v, expected %+v", *got, want)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
	if rate := got.HitRate(); rate != 0.25 {
		t.Errorf("HitRate() = %v, expected 0.25", rate)
	}

	missing, err := store.MatchByID(id + 100)
	if err != nil || missing != nil {
		t.Errorf("MatchByID(missing) = %v, %v, expected nil, nil", missing, err)
	}
}

func TestStoreRejectsUnknownWinner(t *testing.T) {
	store := openTestStore(t)
	m := match("hexhunt-r2", 1, 0)
	m.Winner = "nobody"
	if _, err := store.SaveMatch(m); err == nil {
		t.Error("SaveMatch() with unknown winner should fail")
	}
}

func TestStoreRecentMatches(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 5; i++ {
		if _, err := store.SaveMatch(match("hexhunt-r2", i, 2)); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}
	if _, err := store.SaveMatch(match("hexhunt-r3", 1, 1)); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	recent, err := store.RecentMatches("hexhunt-r2", 3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("RecentMatches() returned %d, expected 3", len(recent))
	}
	// Newest first
	if recent[0].HumanScore != 4 || recent[2].HumanScore != 2 {
		t.Errorf("RecentMatches() order = %d..%d, expected 4..2", recent[0].HumanScore, recent[2].HumanScore)
	}

	all, err := store.RecentMatches("", 0)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("RecentMatches(all) returned %d, expected 6", len(all))
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)
	for _, s := range []int{5, 12, 8, 3} {
		store.SaveMatch(match("hexhunt-r2", s, 6))
	}
	selfplay := match("hexhunt-r2", 40, 0)
	selfplay.Source = "selfplay"
	store.SaveMatch(selfplay)

	scores, err := store.TopScores("hexhunt-r2", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("TopScores() returned %d, expected 3", len(scores))
	}
	if scores[0].Score != 12 || scores[1].Score != 8 || scores[2].Score != 5 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Winner != WinnerHuman {
		t.Errorf("scores[0].Winner = %q, expected %q", scores[0].Winner, WinnerHuman)
	}

	high, err := store.HighScore("hexhunt-r2")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 12 {
		t.Errorf("HighScore() = %d, expected 12 (self-play excluded)", high)
	}

	high, err = store.HighScore("hexhunt-r4")
	if err != nil || high != 0 {
		t.Errorf("HighScore(empty) = %d, %v, expected 0, nil", high, err)
	}
}

func TestStoreClearMatches(t *testing.T) {
	store := openTestStore(t)
	store.SaveMatch(match("hexhunt-r2", 1, 0))
	store.SaveMatch(match("hexhunt-r3", 1, 0))

	if err := store.ClearMatches("hexhunt-r2"); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}

	if m, _ := store.RecentMatches("hexhunt-r2", 10); len(m) != 0 {
		t.Errorf("Expected 0 matches after clear, got %d", len(m))
	}
	if m, _ := store.RecentMatches("hexhunt-r3", 10); len(m) != 1 {
		t.Error("Other variants should not be affected by clearing one")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("hexhunt-r1")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.Matches != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("GetGameStats(empty) = %+v, expected zero stats", empty)
	}

	store.SaveMatch(match("hexhunt-r2", 9, 4))
	store.SaveMatch(match("hexhunt-r2", 2, 7))
	store.SaveMatch(match("hexhunt-r2", 5, 5))
	store.SaveMatch(match("hexhunt-r3", 1, 0))

	st, err := store.GetGameStats("hexhunt-r2")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if st.Matches != 3 || st.HumanWins != 1 || st.AIWins != 1 || st.Draws != 1 {
		t.Errorf("GetGameStats() = %+v, expected 3 matches with one of each result", st)
	}
	if st.HighScore != 9 {
		t.Errorf("HighScore = %d, expected 9", st.HighScore)
	}
	if st.AvgNodes != 500 {
		t.Errorf("AvgNodes = %v, expected 500", st.AvgNodes)
	}
	if st.HitRate != 0.25 {
		t.Errorf("HitRate = %v, expected 0.25", st.HitRate)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAllGamesStats() returned %d variants, expected 2", len(all))
	}
	if all["hexhunt-r3"].Matches != 1 || all["hexhunt-r2"].Matches != 3 {
		t.Errorf("GetAllGamesStats() = %+v", all)
	}
}

func TestStoreMigratesOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "hexhunt.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if v, err := store.SchemaVersion(); err != nil || v != len(migrations) {
		t.Errorf("SchemaVersion() = %d, %v, expected %d", v, err, len(migrations))
	}
	if _, err := store.SaveMatch(match("hexhunt-r2", 5, 3)); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	store.Close()

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.RecentMatches("hexhunt-r2", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("RecentMatches() after reopen = %d rows, expected 1", len(recent))
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in, expected string
	}{
		{"~/.hexhunt/hexhunt.db", "/home/tester/.hexhunt/hexhunt.db"},
		{"/var/lib/hexhunt.db", "/var/lib/hexhunt.db"},
		{"relative.db", "relative.db"},
	}
	for _, tc := range tests {
		got, err := expandHome(tc.in)
		if err != nil {
			t.Fatalf("expandHome(%q) failed: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Errorf("expandHome(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestStoreFailedMigrationRollsBack(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hexhunt.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Close()

	saved := migrations
	t.Cleanup(func() { migrations = saved })
	migrations = append(append([]string(nil), saved...),
		`CREATE TABLE extra (id INTEGER PRIMARY KEY);
		CREATE INDEX broken ON missing(col);`)

	if _, err := Open(dbPath); err == nil || !strings.Contains(err.Error(), fmt.Sprintf("migration %d", len(migrations))) {
		t.Fatalf("Open() error = %v, expected the new migration to fail", err)
	}

	migrations = saved
	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() after failure failed: %v", err)
	}
	defer reopened.Close()
	if v, err := reopened.SchemaVersion(); err != nil || v != len(saved) {
		t.Errorf("SchemaVersion() = %d, %v, expected %d", v, err, len(saved))
	}
	var n int
	if err := reopened.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'extra'`).Scan(&n); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if n != 0 {
		t.Error("table from the failed migration survived the rollback")
	}
}
