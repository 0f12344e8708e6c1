// Package storage keeps finished HexHunt matches and their AI telemetry in
// SQLite through the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Winner values stored with each match.
const (
	WinnerHuman = "human"
	WinnerAI    = "ai"
	WinnerDraw  = "draw"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// MatchRecord is one finished game together with the AI's search telemetry.
type MatchRecord struct {
	ID         int64
	Variant    string // registry id, e.g. "hexhunt-r2"
	Radius     int
	Seed       int64
	Difficulty string
	Source     string // "tui", "ssh", "api" or "selfplay"
	HumanScore int
	AIScore    int
	Winner     string
	Moves      int
	Duration   time.Duration

	// Aggregates over every AI move of the match.
	AISearches int
	AINodes    int64
	AITTProbes int64
	AITTHits   int64
	AIMaxDepth int
	AIThink    time.Duration

	CreatedAt time.Time
}

// HitRate returns the share of AI table probes that hit.
func (m MatchRecord) HitRate() float64 {
	if m.AITTProbes == 0 {
		return 0
	}
	return float64(m.AITTHits) / float64(m.AITTProbes)
}

// ScoreEntry is a single human score.
type ScoreEntry struct {
	ID        int64
	Variant   string
	Score     int
	Winner    string
	CreatedAt time.Time
}

// pragmas apply to every pooled connection. WAL lets the SSH sessions and
// self-play workers read while one of them writes.
const pragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// Open opens the match database at dbPath, creating it and its directory if
// needed, and brings the schema up to date. A leading ~ is the home directory.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory for %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+pragmas)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrating %s: %w", dbPath, err)
	}
	return store, nil
}

// migrations are applied in order; PRAGMA user_version counts the applied
// ones. Append, never edit.
var migrations = []string{
	`CREATE TABLE matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		variant TEXT NOT NULL,
		radius INTEGER NOT NULL,
		seed INTEGER NOT NULL DEFAULT 0,
		difficulty TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		human_score INTEGER NOT NULL DEFAULT 0,
		ai_score INTEGER NOT NULL DEFAULT 0,
		winner TEXT NOT NULL,
		moves INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		ai_searches INTEGER NOT NULL DEFAULT 0,
		ai_nodes INTEGER NOT NULL DEFAULT 0,
		ai_tt_probes INTEGER NOT NULL DEFAULT 0,
		ai_tt_hits INTEGER NOT NULL DEFAULT 0,
		ai_max_depth INTEGER NOT NULL DEFAULT 0,
		ai_think_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX idx_matches_variant ON matches(variant);`,

	`CREATE INDEX idx_matches_top ON matches(variant, human_score DESC) WHERE source != 'selfplay';`,
}

// migrate applies the migrations the database has not seen yet.
func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		if err := s.applyMigration(i); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// applyMigration runs migration i and bumps user_version in one transaction.
// A failed rollback is reported alongside the error that caused it.
func (s *Store) applyMigration(i int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(migrations[i]); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// SchemaVersion returns the number of applied migrations.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match and returns its id.
func (s *Store) SaveMatch(m MatchRecord) (int64, error) {
	switch m.Winner {
	case WinnerHuman, WinnerAI, WinnerDraw:
	default:
		return 0, fmt.Errorf("storage: cannot save match: unknown winner %q", m.Winner)
	}

	result, err := s.db.Exec(
		`INSERT INTO matches (
			variant, radius, seed, difficulty, source,
			human_score, ai_score, winner, moves, duration_ms,
			ai_searches, ai_nodes, ai_tt_probes, ai_tt_hits, ai_max_depth, ai_think_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Variant, m.Radius, m.Seed, m.Difficulty, m.Source,
		m.HumanScore, m.AIScore, m.Winner, m.Moves, m.Duration.Milliseconds(),
		m.AISearches, m.AINodes, m.AITTProbes, m.AITTHits, m.AIMaxDepth, m.AIThink.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const matchColumns = `id, variant, radius, seed, difficulty, source,
	human_score, ai_score, winner, moves, duration_ms,
	ai_searches, ai_nodes, ai_tt_probes, ai_tt_hits, ai_max_depth, ai_think_ms, created_at`

func scanMatch(row interface{ Scan(...any) error }) (MatchRecord, error) {
	var (
		m                 MatchRecord
		durationMS, think int64
		createdAt         any
	)
	err := row.Scan(
		&m.ID, &m.Variant, &m.Radius, &m.Seed, &m.Difficulty, &m.Source,
		&m.HumanScore, &m.AIScore, &m.Winner, &m.Moves, &durationMS,
		&m.AISearches, &m.AINodes, &m.AITTProbes, &m.AITTHits, &m.AIMaxDepth, &think, &createdAt,
	)
	if err != nil {
		return MatchRecord{}, err
	}
	m.Duration = time.Duration(durationMS) * time.Millisecond
	m.AIThink = time.Duration(think) * time.Millisecond
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// MatchByID returns one stored match.
func (s *Store) MatchByID(id int64) (*MatchRecord, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches returns the newest matches, optionally only of one variant.
func (s *Store) RecentMatches(variant string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + matchColumns + ` FROM matches`
	args := []any{}
	if variant != "" {
		query += ` WHERE variant = ?`
		args = append(args, variant)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return matches, nil
}

// TopScores retrieves the best human scores of a variant.
// Results are ordered by score descending.
func (s *Store) TopScores(variant string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, variant, human_score, winner, created_at
		 FROM matches
		 WHERE variant = ? AND source != 'selfplay'
		 ORDER BY human_score DESC, id ASC
		 LIMIT ?`,
		variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Variant, &e.Score, &e.Winner, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best human score of a variant, or 0 if none exist.
func (s *Store) HighScore(variant string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(human_score) FROM matches WHERE variant = ? AND source != 'selfplay'",
		variant,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearMatches deletes every match of a variant.
func (s *Store) ClearMatches(variant string) error {
	_, err := s.db.Exec("DELETE FROM matches WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a variant.
type GameStats struct {
	Variant    string
	Matches    int
	HumanWins  int
	AIWins     int
	Draws      int
	HighScore  int
	AvgScore   float64
	AvgNodes   float64 // Per AI search
	HitRate    float64 // Table hits over probes, all matches
	LastPlayed time.Time
}

const statsColumns = `COUNT(*),
	COALESCE(SUM(CASE WHEN winner = 'human' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN winner = 'ai' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN winner = 'draw' THEN 1 ELSE 0 END), 0),
	COALESCE(MAX(human_score), 0),
	COALESCE(AVG(human_score), 0),
	COALESCE(SUM(ai_nodes), 0),
	COALESCE(SUM(ai_searches), 0),
	COALESCE(SUM(ai_tt_hits), 0),
	COALESCE(SUM(ai_tt_probes), 0),
	MAX(created_at)`

func scanStats(row interface{ Scan(...any) error }, st *GameStats) error {
	var (
		nodes, searches, hits, probes int64
		lastPlayed                    any
	)
	err := row.Scan(&st.Matches, &st.HumanWins, &st.AIWins, &st.Draws,
		&st.HighScore, &st.AvgScore, &nodes, &searches, &hits, &probes, &lastPlayed)
	if err != nil {
		return err
	}
	if searches > 0 {
		st.AvgNodes = float64(nodes) / float64(searches)
	}
	if probes > 0 {
		st.HitRate = float64(hits) / float64(probes)
	}
	st.LastPlayed = parseTime(lastPlayed)
	return nil
}

// GetGameStats retrieves aggregated statistics for one variant.
func (s *Store) GetGameStats(variant string) (*GameStats, error) {
	stats := &GameStats{Variant: variant}
	row := s.db.QueryRow(`SELECT `+statsColumns+` FROM matches WHERE variant = ?`, variant)
	if err := scanStats(row, stats); err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	return stats, nil
}

// GetAllGamesStats retrieves statistics for every variant that has been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(`SELECT variant, ` + statsColumns + ` FROM matches GROUP BY variant`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var variant string
		st := &GameStats{}
		scanner := prefixScanner{rows: rows, first: &variant}
		if err := scanStats(scanner, st); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Variant = variant
		stats[variant] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// prefixScanner scans one leading column before handing the rest on.
type prefixScanner struct {
	rows  *sql.Rows
	first any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append([]any{p.first}, dest...)...)
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
