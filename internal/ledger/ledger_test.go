package ledger

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ipveka/HedgeLab/internal/model"
	"github.com/ipveka/HedgeLab/internal/store"
)

func tr(symbol string, side model.Side, qty, price float64, at time.Time) model.Trade {
	return model.Trade{
		Symbol:    symbol,
		Side:      side,
		Quantity:  qty,
		Price:     price,
		Timestamp: at,
	}
}

func TestApply_BuysBlendAverageCost(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	pos, err := Apply(model.Position{}, tr("AAPL", model.SideBuy, 100, 150, day))
	if err != nil {
		t.Fatal(err)
	}
	pos, err = Apply(pos, tr("AAPL", model.SideBuy, 100, 160, day.AddDate(0, 0, 1)))
	if err != nil {
		t.Fatal(err)
	}

	if pos.Quantity != 200 {
		t.Errorf("quantity = %v, want 200", pos.Quantity)
	}
	if pos.AvgCost != 155 {
		t.Errorf("avg cost = %v, want 155", pos.AvgCost)
	}
	if pos.RealizedPnL != 0 {
		t.Errorf("realized = %v, want 0 on pure buys", pos.RealizedPnL)
	}
}

func TestApply_SellKeepsAverageAndRealizes(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	pos, _ := Apply(model.Position{}, tr("AAPL", model.SideBuy, 100, 150, day))
	pos, err := Apply(pos, tr("AAPL", model.SideSell, 50, 155, day.AddDate(0, 0, 1)))
	if err != nil {
		t.Fatal(err)
	}

	if pos.Quantity != 50 {
		t.Errorf("quantity = %v, want 50", pos.Quantity)
	}
	if pos.AvgCost != 150 {
		t.Errorf("avg cost = %v, want 150 (sells never reaverage)", pos.AvgCost)
	}
	if pos.RealizedPnL != 250 {
		t.Errorf("realized = %v, want 250", pos.RealizedPnL)
	}
	if got := pos.UnrealizedPnL(155); got != 250 {
		t.Errorf("unrealized at 155 = %v, want 250", got)
	}
}

func TestApply_SellPastFlatOpensShort(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	pos, _ := Apply(model.Position{}, tr("TSLA", model.SideBuy, 10, 200, day))
	pos, err := Apply(pos, tr("TSLA", model.SideSell, 30, 210, day.AddDate(0, 0, 1)))
	if err != nil {
		t.Fatal(err)
	}

	if pos.Quantity != -20 {
		t.Errorf("quantity = %v, want -20", pos.Quantity)
	}
	// Only the 10 closed shares realize.
	if pos.RealizedPnL != 100 {
		t.Errorf("realized = %v, want 100", pos.RealizedPnL)
	}
}

func TestApply_CoveringBuyRealizesAgainstBasis(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	pos, _ := Apply(model.Position{}, tr("TSLA", model.SideBuy, 10, 200, day))
	pos, _ = Apply(pos, tr("TSLA", model.SideSell, 30, 210, day.AddDate(0, 0, 1)))
	if pos.Quantity != -20 || pos.AvgCost != 200 {
		t.Fatalf("position = %+v, want qty -20 avg 200", pos)
	}
	// 10 long shares realized on the flip.
	if pos.RealizedPnL != 100 {
		t.Fatalf("realized = %v, want 100", pos.RealizedPnL)
	}

	pos, err := Apply(pos, tr("TSLA", model.SideBuy, 20, 190, day.AddDate(0, 0, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsFlat() {
		t.Errorf("quantity = %v, want flat after the cover", pos.Quantity)
	}
	// Cover realizes 20 x (200 - 190) on top of the earlier 100.
	if pos.RealizedPnL != 300 {
		t.Errorf("realized = %v, want 300", pos.RealizedPnL)
	}
}

func TestApply_ValidationRejectsBadTrades(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		trade model.Trade
	}{
		{"empty symbol", tr("", model.SideBuy, 10, 100, day)},
		{"bad side", model.Trade{Symbol: "AAPL", Side: "HOLD", Quantity: 10, Price: 100, Timestamp: day}},
		{"zero quantity", tr("AAPL", model.SideBuy, 0, 100, day)},
		{"negative quantity", tr("AAPL", model.SideBuy, -5, 100, day)},
		{"zero price", tr("AAPL", model.SideBuy, 10, 0, day)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := model.Position{Symbol: "AAPL", Quantity: 10, AvgCost: 100}
			after, err := Apply(before, tt.trade)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if after != before {
				t.Error("position mutated by a rejected trade")
			}
		})
	}
}

func TestRebuild_OrderIndependent(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		tr("AAPL", model.SideSell, 50, 155, day.AddDate(0, 0, 2)),
		tr("MSFT", model.SideBuy, 50, 300, day.AddDate(0, 0, 1)),
		tr("AAPL", model.SideBuy, 100, 150, day),
	}

	positions, err := Rebuild(trades)
	if err != nil {
		t.Fatal(err)
	}

	aapl := positions["AAPL"]
	if aapl.Quantity != 50 || aapl.AvgCost != 150 || aapl.RealizedPnL != 250 {
		t.Errorf("AAPL = %+v, want qty 50 avg 150 realized 250", aapl)
	}
	msft := positions["MSFT"]
	if msft.Quantity != 50 || msft.AvgCost != 300 {
		t.Errorf("MSFT = %+v, want qty 50 avg 300", msft)
	}

	// Same trades already in order must give the identical result.
	ordered := []model.Trade{trades[2], trades[1], trades[0]}
	again, err := Rebuild(ordered)
	if err != nil {
		t.Fatal(err)
	}
	if again["AAPL"] != aapl || again["MSFT"] != msft {
		t.Error("replay differs between shuffled and ordered input")
	}
}

func TestLedger_LogTradeAndReplayAgree(t *testing.T) {
	l, err := New(store.NewNoopStore())
	if err != nil {
		t.Fatal(err)
	}

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		tr("AAPL", model.SideBuy, 100, 150, day),
		tr("AAPL", model.SideBuy, 50, 180, day.AddDate(0, 0, 1)),
		tr("AAPL", model.SideSell, 75, 170, day.AddDate(0, 0, 2)),
	}
	var last model.Position
	for _, trade := range trades {
		last, err = l.LogTrade(trade)
		if err != nil {
			t.Fatal(err)
		}
	}

	replayed, err := Rebuild(trades)
	if err != nil {
		t.Fatal(err)
	}
	want := replayed["AAPL"]
	if last.Quantity != want.Quantity || last.AvgCost != want.AvgCost || last.RealizedPnL != want.RealizedPnL {
		t.Errorf("live = %+v, replay = %+v", last, want)
	}
}

func TestLedger_LogTradeFillsDefaults(t *testing.T) {
	l, err := New(store.NewNoopStore())
	if err != nil {
		t.Fatal(err)
	}
	_, err = l.LogTrade(model.Trade{Symbol: "V", Side: model.SideBuy, Quantity: 10, Price: 250})
	if err != nil {
		t.Fatal(err)
	}
	pos, ok := l.Position("V")
	if !ok {
		t.Fatal("position missing after trade")
	}
	if pos.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not defaulted from the trade timestamp")
	}
}

func TestLedger_ClosePosition(t *testing.T) {
	l, err := New(store.NewNoopStore())
	if err != nil {
		t.Fatal(err)
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := l.LogTrade(tr("AAPL", model.SideBuy, 100, 150, day)); err != nil {
		t.Fatal(err)
	}

	pos, err := l.ClosePosition("AAPL", 160)
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsFlat() {
		t.Errorf("quantity = %v, want flat after close", pos.Quantity)
	}
	if pos.RealizedPnL != 1000 {
		t.Errorf("realized = %v, want 1000", pos.RealizedPnL)
	}
	if len(l.Positions()) != 0 {
		t.Error("flat position listed as open")
	}

	if _, err := l.ClosePosition("AAPL", 160); err == nil {
		t.Error("closing a flat position should fail")
	}
}

func TestValue_TotalsAndCounts(t *testing.T) {
	positions := []model.Position{
		{Symbol: "AAPL", Quantity: 50, AvgCost: 150},
		{Symbol: "TSLA", Quantity: -20, AvgCost: 210},
	}
	prices := map[string]float64{"AAPL": 160, "TSLA": 200}

	v := Value(positions, prices)
	if v.LongPositions != 1 || v.ShortPositions != 1 {
		t.Errorf("counts = %d long %d short, want 1/1", v.LongPositions, v.ShortPositions)
	}
	wantValue := 50*160.0 + (-20)*200.0
	if v.TotalValue != wantValue {
		t.Errorf("total value = %v, want %v", v.TotalValue, wantValue)
	}
	wantCost := 50*150.0 + (-20)*210.0
	if v.TotalCost != wantCost {
		t.Errorf("total cost = %v, want %v", v.TotalCost, wantCost)
	}
	if math.Abs(v.TotalPnL-(wantValue-wantCost)) > 1e-9 {
		t.Errorf("total pnl = %v, want %v", v.TotalPnL, wantValue-wantCost)
	}
}
