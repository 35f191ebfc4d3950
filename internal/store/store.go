package store

import "github.com/ipveka/HedgeLab/internal/model"

// Store persists the portfolio and scan history. It is an at-least-once,
// best-effort sink: callers always also return results directly, so
// presentation never depends on a successful write.
type Store interface {
	// AppendTrade records a fill. Trades are append-only.
	AppendTrade(t model.Trade) error
	// Trades returns trades ascending by timestamp, optionally filtered by
	// symbol; limit 0 means no limit.
	Trades(symbol string, limit int) ([]model.Trade, error)

	UpsertPosition(p model.Position) error
	Positions() ([]model.Position, error)

	InsertOpportunity(o model.Opportunity) error
	// Opportunities returns the most recent scan hits, newest first,
	// optionally filtered by strategy.
	Opportunities(strategy model.Strategy, limit int) ([]model.Opportunity, error)

	// UpsertSnapshot records the portfolio value for a day, replacing any
	// existing snapshot for the same date.
	UpsertSnapshot(s model.PerformanceSnapshot) error
	// Snapshots returns all daily snapshots ascending by date.
	Snapshots() ([]model.PerformanceSnapshot, error)

	Close() error
}
