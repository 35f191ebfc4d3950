package store

import "github.com/ipveka/HedgeLab/internal/model"

// NoopStore is a no-op implementation used when persistence is not
// configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) AppendTrade(_ model.Trade) error               { return nil }
func (n *NoopStore) Trades(_ string, _ int) ([]model.Trade, error) { return nil, nil }
func (n *NoopStore) UpsertPosition(_ model.Position) error         { return nil }
func (n *NoopStore) Positions() ([]model.Position, error)          { return nil, nil }
func (n *NoopStore) InsertOpportunity(_ model.Opportunity) error   { return nil }
func (n *NoopStore) Opportunities(_ model.Strategy, _ int) ([]model.Opportunity, error) {
	return nil, nil
}
func (n *NoopStore) UpsertSnapshot(_ model.PerformanceSnapshot) error { return nil }
func (n *NoopStore) Snapshots() ([]model.PerformanceSnapshot, error)  { return nil, nil }
func (n *NoopStore) Close() error                                     { return nil }
