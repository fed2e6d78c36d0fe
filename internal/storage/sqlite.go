// Package storage provides SQLite-based persistence for scores and
// finished play sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
// Score is the number of lines cleared.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Player    string
	Score     int
	CreatedAt time.Time
}

// SessionRecord describes one finished play session.
type SessionRecord struct {
	ID        int64
	SessionID string
	GameID    string
	Player    string
	Transport string // "local", "ssh" or "web"
	Lines     int
	Won       bool
	EndReason string // "gameover", "restart" or "disconnect"
	Duration  int    // Play time in seconds, pauses excluded
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			transport TEXT NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player);
		CREATE INDEX IF NOT EXISTS idx_sessions_session_id ON sessions(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records the lines cleared by player in the given variant.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID, player string, lines int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, player, score) VALUES (?, ?, ?)",
		gameID, player, lines,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]ScoreEntry, error) {
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.Score, &createdAt); err != nil {
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

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes the leaderboard of the given variant. Session
// history is kept.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveSession records a finished play session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions
		 (session_id, game_id, player, transport, lines, won, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.GameID,
		rec.Player,
		rec.Transport,
		rec.Lines,
		rec.Won,
		rec.EndReason,
		rec.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, game_id, player, transport, lines, won, end_reason, duration_secs, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

// PlayerHistory retrieves the sessions played by player, newest first.
func (s *Store) PlayerHistory(player string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, game_id, player, transport, lines, won, end_reason, duration_secs, created_at
		 FROM sessions
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player sessions: %w", err)
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]SessionRecord, error) {
	defer rows.Close()

	var results []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var createdAt any

		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.GameID,
			&rec.Player,
			&rec.Transport,
			&rec.Lines,
			&rec.Won,
			&rec.EndReason,
			&rec.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerSummary totals the finished sessions of one player.
type PlayerSummary struct {
	Player   string
	Games    int
	Wins     int
	Lines    int
	BestRun  int // most lines in a single session
	PlaySecs int
	Boards   map[string]int // best lines per variant
}

// PlayerSummary aggregates every recorded session of player, whatever
// its end reason.
func (s *Store) PlayerSummary(player string) (PlayerSummary, error) {
	sum := PlayerSummary{Player: player, Boards: map[string]int{}}

	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), SUM(won), SUM(lines), MAX(lines), SUM(duration_secs)
		 FROM sessions
		 WHERE player = ?
		 GROUP BY game_id`,
		player,
	)
	if err != nil {
		return sum, fmt.Errorf("storage: cannot summarize player: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			gameID                         string
			games, wins, lines, best, secs int
		)
		if err := rows.Scan(&gameID, &games, &wins, &lines, &best, &secs); err != nil {
			return sum, fmt.Errorf("storage: cannot scan summary row: %w", err)
		}
		sum.Games += games
		sum.Wins += wins
		sum.Lines += lines
		sum.PlaySecs += secs
		sum.BestRun = max(sum.BestRun, best)
		sum.Boards[gameID] = best
	}
	if err := rows.Err(); err != nil {
		return sum, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sum, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	// Get count, high, avg, total
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	// Get last played
	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all variants that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore, &gs.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and the string form SQLite returns
// for DATETIME columns.
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
