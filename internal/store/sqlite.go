package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ipveka/HedgeLab/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists portfolio history to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers (e.g. ad-hoc queries) don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id          TEXT PRIMARY KEY,
			symbol      TEXT NOT NULL,
			side        TEXT NOT NULL,
			quantity    REAL NOT NULL,
			price       REAL NOT NULL,
			total_value REAL NOT NULL,
			timestamp   INTEGER NOT NULL,
			notes       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol_ts ON trades(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS positions (
			symbol       TEXT PRIMARY KEY,
			quantity     REAL NOT NULL,
			avg_cost     REAL NOT NULL,
			realized_pnl REAL NOT NULL,
			updated_at   INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS opportunities (
			id              TEXT PRIMARY KEY,
			symbol          TEXT NOT NULL,
			strategy        TEXT NOT NULL,
			signal_strength REAL NOT NULL,
			price           REAL,
			change_pct      REAL,
			volume          REAL,
			sector          TEXT,
			observed_at     INTEGER NOT NULL,
			pe_ratio        REAL,
			price_to_book   REAL,
			revenue_growth  REAL,
			profit_margin   REAL,
			momentum_20d    REAL,
			volume_ratio    REAL,
			potential_gain  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opps_strategy_ts ON opportunities(strategy, observed_at)`,

		`CREATE TABLE IF NOT EXISTS performance (
			date        TEXT PRIMARY KEY,
			total_value REAL NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AppendTrade(t model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO trades
		(id, symbol, side, quantity, price, total_value, timestamp, notes)
		VALUES (?,?,?,?,?,?,?,?)`,
		t.ID, t.Symbol, string(t.Side), t.Quantity, t.Price, t.TotalValue,
		t.Timestamp.Unix(), t.Notes,
	)
	return err
}

func (s *SQLiteStore) Trades(symbol string, limit int) ([]model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, symbol, side, quantity, price, total_value, timestamp, notes FROM trades`
	var args []any
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY timestamp ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var t model.Trade
		var side string
		var ts int64
		if err := rows.Scan(&t.ID, &t.Symbol, &side, &t.Quantity, &t.Price, &t.TotalValue, &ts, &t.Notes); err != nil {
			return nil, err
		}
		t.Side = model.Side(side)
		t.Timestamp = time.Unix(ts, 0)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) UpsertPosition(p model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO positions (symbol, quantity, avg_cost, realized_pnl, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			quantity=excluded.quantity,
			avg_cost=excluded.avg_cost,
			realized_pnl=excluded.realized_pnl,
			updated_at=excluded.updated_at`,
		p.Symbol, p.Quantity, p.AvgCost, p.RealizedPnL, p.UpdatedAt.Unix(),
	)
	return err
}

func (s *SQLiteStore) Positions() ([]model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT symbol, quantity, avg_cost, realized_pnl, updated_at
		FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var p model.Position
		var ts int64
		if err := rows.Scan(&p.Symbol, &p.Quantity, &p.AvgCost, &p.RealizedPnL, &ts); err != nil {
			return nil, err
		}
		p.UpdatedAt = time.Unix(ts, 0)
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *SQLiteStore) InsertOpportunity(o model.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO opportunities
		(id, symbol, strategy, signal_strength, price, change_pct, volume, sector,
		 observed_at, pe_ratio, price_to_book, revenue_growth, profit_margin,
		 momentum_20d, volume_ratio, potential_gain)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.Symbol, string(o.Strategy), o.SignalStrength, o.Price, o.ChangePct,
		o.Volume, o.Sector, o.ObservedAt.Unix(), o.PERatio, o.PriceToBook,
		o.RevenueGrowth, o.ProfitMargin, o.Momentum20D, o.VolumeRatio, o.PotentialGain,
	)
	return err
}

func (s *SQLiteStore) Opportunities(strategy model.Strategy, limit int) ([]model.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, symbol, strategy, signal_strength, price, change_pct, volume,
		sector, observed_at, pe_ratio, price_to_book, revenue_growth, profit_margin,
		momentum_20d, volume_ratio, potential_gain FROM opportunities`
	var args []any
	if strategy != "" {
		query += ` WHERE strategy = ?`
		args = append(args, string(strategy))
	}
	query += ` ORDER BY observed_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []model.Opportunity
	for rows.Next() {
		var o model.Opportunity
		var strat string
		var ts int64
		if err := rows.Scan(&o.ID, &o.Symbol, &strat, &o.SignalStrength, &o.Price,
			&o.ChangePct, &o.Volume, &o.Sector, &ts, &o.PERatio, &o.PriceToBook,
			&o.RevenueGrowth, &o.ProfitMargin, &o.Momentum20D, &o.VolumeRatio,
			&o.PotentialGain); err != nil {
			return nil, err
		}
		o.Strategy = model.Strategy(strat)
		o.ObservedAt = time.Unix(ts, 0)
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

func (s *SQLiteStore) UpsertSnapshot(snap model.PerformanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO performance (date, total_value) VALUES (?,?)
		ON CONFLICT(date) DO UPDATE SET total_value=excluded.total_value`,
		snap.Date.Format(dateLayout), snap.TotalValue,
	)
	return err
}

func (s *SQLiteStore) Snapshots() ([]model.PerformanceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date, total_value FROM performance ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []model.PerformanceSnapshot
	for rows.Next() {
		var dateStr string
		var snap model.PerformanceSnapshot
		if err := rows.Scan(&dateStr, &snap.TotalValue); err != nil {
			return nil, err
		}
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot date %q: %w", dateStr, err)
		}
		snap.Date = d
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
