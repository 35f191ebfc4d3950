package ledger

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ipveka/HedgeLab/internal/model"
	"github.com/ipveka/HedgeLab/internal/store"
)

// ValidationError rejects a malformed trade before anything is mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s %s", e.Field, e.Reason)
}

func validateTrade(t model.Trade) error {
	if t.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if t.Side != model.SideBuy && t.Side != model.SideSell {
		return &ValidationError{Field: "side", Reason: fmt.Sprintf("must be BUY or SELL, got %q", t.Side)}
	}
	if t.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if t.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	return nil
}

// Apply folds one trade into a position. It is a pure function: replaying a
// trade sequence in timestamp order always reproduces the same position.
//
// Buys recompute the average cost as a quantity-weighted blend of the prior
// basis and the new fill. Sells reduce quantity against the existing average
// without touching it; selling past flat opens a short. Realized P&L accrues
// only on the portion of a trade that closes existing exposure.
func Apply(pos model.Position, t model.Trade) (model.Position, error) {
	if err := validateTrade(t); err != nil {
		return pos, err
	}
	if pos.Symbol == "" {
		pos.Symbol = t.Symbol
	}
	if pos.Symbol != t.Symbol {
		return pos, &ValidationError{Field: "symbol", Reason: fmt.Sprintf("trade %s does not match position %s", t.Symbol, pos.Symbol)}
	}

	switch t.Side {
	case model.SideBuy:
		if covered := min(t.Quantity, max(-pos.Quantity, 0)); covered > 0 {
			pos.RealizedPnL += covered * (pos.AvgCost - t.Price)
		}
		newQty := pos.Quantity + t.Quantity
		if newQty != 0 {
			pos.AvgCost = (pos.Quantity*pos.AvgCost + t.Quantity*t.Price) / newQty
		} else {
			pos.AvgCost = t.Price
		}
		pos.Quantity = newQty
	case model.SideSell:
		if closed := min(t.Quantity, max(pos.Quantity, 0)); closed > 0 {
			pos.RealizedPnL += closed * (t.Price - pos.AvgCost)
		}
		pos.Quantity -= t.Quantity
	}

	pos.UpdatedAt = t.Timestamp
	return pos, nil
}

// Rebuild replays a trade log in timestamp order and returns the resulting
// positions keyed by symbol.
func Rebuild(trades []model.Trade) (map[string]model.Position, error) {
	sorted := make([]model.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	positions := make(map[string]model.Position)
	for _, t := range sorted {
		pos, err := Apply(positions[t.Symbol], t)
		if err != nil {
			return nil, fmt.Errorf("replay trade %s: %w", t.ID, err)
		}
		positions[t.Symbol] = pos
	}
	return positions, nil
}

// Ledger owns one Position per symbol, derived from an append-only trade log.
// Persistence is best-effort: results are always returned to the caller even
// when a write fails.
type Ledger struct {
	mu        sync.Mutex
	store     store.Store
	positions map[string]model.Position
}

// New creates a Ledger backed by the given store, replaying any stored trades
// to rebuild positions.
func New(st store.Store) (*Ledger, error) {
	trades, err := st.Trades("", 0)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	positions, err := Rebuild(trades)
	if err != nil {
		return nil, err
	}
	return &Ledger{store: st, positions: positions}, nil
}

// LogTrade validates and records a fill, returning the updated position.
// A trade either fully updates the position or is rejected untouched.
func (l *Ledger) LogTrade(t model.Trade) (model.Position, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	t.TotalValue = t.Quantity * t.Price

	l.mu.Lock()
	defer l.mu.Unlock()

	pos, err := Apply(l.positions[t.Symbol], t)
	if err != nil {
		return model.Position{}, err
	}
	l.positions[t.Symbol] = pos

	if err := l.store.AppendTrade(t); err != nil {
		log.Printf("[ERROR] append trade %s: %v", t.ID, err)
	}
	if err := l.store.UpsertPosition(pos); err != nil {
		log.Printf("[ERROR] upsert position %s: %v", pos.Symbol, err)
	}
	return pos, nil
}

// ClosePosition fully closes a symbol with an ordinary market-price trade:
// a SELL for a long, a covering BUY for a short.
func (l *Ledger) ClosePosition(symbol string, marketPrice float64) (model.Position, error) {
	l.mu.Lock()
	pos, ok := l.positions[symbol]
	l.mu.Unlock()
	if !ok || pos.IsFlat() {
		return model.Position{}, &ValidationError{Field: "symbol", Reason: fmt.Sprintf("no open position for %s", symbol)}
	}

	side := model.SideSell
	qty := pos.Quantity
	if qty < 0 {
		side = model.SideBuy
		qty = -qty
	}
	return l.LogTrade(model.Trade{
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Price:    marketPrice,
		Notes:    "position close",
	})
}

// Position returns the current position for a symbol.
func (l *Ledger) Position(symbol string) (model.Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.positions[symbol]
	return pos, ok
}

// Positions returns all non-flat positions sorted by symbol.
func (l *Ledger) Positions() []model.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Position, 0, len(l.positions))
	for _, pos := range l.positions {
		if !pos.IsFlat() {
			out = append(out, pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Valuation aggregates market value and P&L across positions.
type Valuation struct {
	TotalValue     float64
	TotalCost      float64
	TotalPnL       float64
	TotalPnLPct    float64
	LongPositions  int
	ShortPositions int
}

// Value computes portfolio totals from positions and their current prices.
// Positions without a price contribute their cost basis only through value 0,
// which keeps a partly-priced valuation conservative rather than wrong.
func Value(positions []model.Position, prices map[string]float64) Valuation {
	var v Valuation
	for _, pos := range positions {
		if pos.IsFlat() {
			continue
		}
		if pos.Quantity > 0 {
			v.LongPositions++
		} else {
			v.ShortPositions++
		}
		price := prices[pos.Symbol]
		v.TotalValue += pos.MarketValue(price)
		v.TotalCost += pos.CostBasis()
	}
	v.TotalPnL = v.TotalValue - v.TotalCost
	if v.TotalCost != 0 {
		v.TotalPnLPct = v.TotalPnL / v.TotalCost * 100
	}
	return v
}
