package replay

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// TurnStats is one row of per-turn telemetry.
type TurnStats struct {
	Game       string  `db:"game_id"`
	Turn       int     `db:"turn"`
	Bank       int     `db:"bank"`
	Ships      int     `db:"ships"`
	Dropoffs   int     `db:"dropoffs"`
	Explorers  int     `db:"explorers"`
	Returners  int     `db:"returners"`
	Rate       float64 `db:"rate"`
	Reserved   int     `db:"reserved"`
	Spawned    bool    `db:"spawned"`
	HardReturn bool    `db:"hard_return"`
	ElapsedMs  float64 `db:"elapsed_ms"`
}

// Game is one row of the games table.
type Game struct {
	ID        string    `db:"id"`
	Bot       string    `db:"bot"`
	Width     int       `db:"width"`
	Height    int       `db:"height"`
	Players   int       `db:"players"`
	Seed      int64     `db:"seed"`
	StartedAt time.Time `db:"started_at"`
}

// StatsDB wraps a SQLite connection for per-turn telemetry.
type StatsDB struct {
	conn *sqlx.DB
}

// OpenStats opens or creates a SQLite database at the given path.
func OpenStats(path string) (*StatsDB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}

	db := &StatsDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *StatsDB) Close() error {
	return db.conn.Close()
}

func (db *StatsDB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		bot TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		players INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		game_id TEXT NOT NULL REFERENCES games(id),
		turn INTEGER NOT NULL,
		bank INTEGER NOT NULL,
		ships INTEGER NOT NULL,
		dropoffs INTEGER NOT NULL,
		explorers INTEGER NOT NULL,
		returners INTEGER NOT NULL,
		rate REAL NOT NULL,
		reserved INTEGER NOT NULL,
		spawned INTEGER NOT NULL,
		hard_return INTEGER NOT NULL,
		elapsed_ms REAL NOT NULL,
		PRIMARY KEY (game_id, turn)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartGame registers a new game and returns its id.
func (db *StatsDB) StartGame(g Game) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.StartedAt.IsZero() {
		g.StartedAt = time.Now().UTC()
	}
	_, err := db.conn.NamedExec(`INSERT INTO games (id, bot, width, height, players, seed, started_at)
		VALUES (:id, :bot, :width, :height, :players, :seed, :started_at)`, g)
	if err != nil {
		return "", fmt.Errorf("insert game: %w", err)
	}
	return g.ID, nil
}

// RecordTurn writes (or replaces) the stats row for one turn.
func (db *StatsDB) RecordTurn(s TurnStats) error {
	_, err := db.conn.NamedExec(`INSERT OR REPLACE INTO turns
		(game_id, turn, bank, ships, dropoffs, explorers, returners, rate, reserved, spawned, hard_return, elapsed_ms)
		VALUES (:game_id, :turn, :bank, :ships, :dropoffs, :explorers, :returners, :rate, :reserved, :spawned, :hard_return, :elapsed_ms)`, s)
	if err != nil {
		return fmt.Errorf("insert turn %d: %w", s.Turn, err)
	}
	return nil
}

// Turns returns a game's rows in turn order.
func (db *StatsDB) Turns(game string) ([]TurnStats, error) {
	var out []TurnStats
	err := db.conn.Select(&out, `SELECT game_id, turn, bank, ships, dropoffs, explorers, returners,
		rate, reserved, spawned, hard_return, elapsed_ms FROM turns WHERE game_id = ? ORDER BY turn`, game)
	return out, err
}

// Summary is the aggregate over a game's turns.
type Summary struct {
	Turns     int     `db:"turns"`
	Spawned   int     `db:"spawned"`
	PeakShips int     `db:"peak_ships"`
	FinalBank int     `db:"final_bank"`
	SlowestMs float64 `db:"slowest_ms"`
	MeanRate  float64 `db:"mean_rate"`
}

// Summarize aggregates a game's turns.
func (db *StatsDB) Summarize(game string) (Summary, error) {
	var s Summary
	err := db.conn.Get(&s, `SELECT
		COUNT(*) AS turns,
		COALESCE(SUM(spawned), 0) AS spawned,
		COALESCE(MAX(ships), 0) AS peak_ships,
		COALESCE((SELECT bank FROM turns WHERE game_id = ? ORDER BY turn DESC LIMIT 1), 0) AS final_bank,
		COALESCE(MAX(elapsed_ms), 0) AS slowest_ms,
		COALESCE(AVG(rate), 0) AS mean_rate
		FROM turns WHERE game_id = ?`, game, game)
	return s, err
}
