package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/ipveka/HedgeLab/internal/model"
)

// frameWith builds a two-row frame with every series defined, then lets the
// caller tweak the values that drive one rule.
func frameWith(tweak func(f *model.IndicatorFrame)) *model.IndicatorFrame {
	f := &model.IndicatorFrame{
		Bars: []model.PriceBar{
			{Close: 100}, {Close: 100},
		},
		MAShort:    []float64{100, 100},
		MALong:     []float64{100, 100},
		RSI:        []float64{50, 50},
		MACD:       []float64{0, 0},
		MACDSignal: []float64{0, 0},
		MACDHist:   []float64{0, 0},
		BBUpper:    []float64{110, 110},
		BBMiddle:   []float64{100, 100},
		BBLower:    []float64{90, 90},
		VolumeSMA:  []float64{1e6, 1e6},
	}
	tweak(f)
	return f
}

func TestClassify_RSIOversold(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) { f.RSI[1] = 15 })
	signals, err := Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	s := signals[IndicatorRSI]
	if s.Direction != model.DirectionBuy {
		t.Errorf("direction = %s, want BUY at RSI 15", s.Direction)
	}
	if math.Abs(s.Strength-0.5) > 1e-9 {
		t.Errorf("strength = %v, want 0.5 ((30-15)/30)", s.Strength)
	}
}

func TestClassify_RSIOverbought(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) { f.RSI[1] = 85 })
	signals, err := Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	s := signals[IndicatorRSI]
	if s.Direction != model.DirectionSell {
		t.Errorf("direction = %s, want SELL at RSI 85", s.Direction)
	}
	if math.Abs(s.Strength-0.5) > 1e-9 {
		t.Errorf("strength = %v, want 0.5 ((85-70)/30)", s.Strength)
	}
}

func TestClassify_RSIExtremeClampedToOne(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) { f.RSI[1] = 0 })
	signals, err := Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	if s := signals[IndicatorRSI]; s.Strength != 1 {
		t.Errorf("strength = %v, want clamp to 1 at RSI 0", s.Strength)
	}
}

func TestClassify_MACDBullishCrossover(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) {
		f.MACD = []float64{-1, 1}
		f.MACDSignal = []float64{0, 0}
	})
	signals, err := Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	s := signals[IndicatorMACD]
	if s.Direction != model.DirectionBuy || s.Strength != 0.8 {
		t.Errorf("got %s/%v, want BUY/0.8 on an upward cross", s.Direction, s.Strength)
	}
}

func TestClassify_MACDBearishCrossover(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) {
		f.MACD = []float64{1, -1}
		f.MACDSignal = []float64{0, 0}
	})
	signals, err := Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	s := signals[IndicatorMACD]
	if s.Direction != model.DirectionSell || s.Strength != 0.8 {
		t.Errorf("got %s/%v, want SELL/0.8 on a downward cross", s.Direction, s.Strength)
	}
}

func TestClassify_MACDAboveWithoutCrossIsNeutral(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) {
		f.MACD = []float64{1, 1}
		f.MACDSignal = []float64{0, 0}
	})
	signals, err := Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	s := signals[IndicatorMACD]
	if s.Direction != model.DirectionNeutral || s.Strength != 0.5 {
		t.Errorf("got %s/%v, want NEUTRAL/0.5 without a cross", s.Direction, s.Strength)
	}
}

func TestClassify_MATrendAlignment(t *testing.T) {
	tests := []struct {
		name              string
		close, ma20, ma50 float64
		want              model.Direction
	}{
		{"bullish stack", 110, 105, 100, model.DirectionBuy},
		{"bearish stack", 90, 95, 100, model.DirectionSell},
		{"mixed", 110, 100, 105, model.DirectionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameWith(func(f *model.IndicatorFrame) {
				f.Bars[1].Close = tt.close
				f.MAShort[1] = tt.ma20
				f.MALong[1] = tt.ma50
			})
			signals, err := Classify(f)
			if err != nil {
				t.Fatal(err)
			}
			if s := signals[IndicatorMA]; s.Direction != tt.want {
				t.Errorf("direction = %s, want %s", s.Direction, tt.want)
			}
		})
	}
}

func TestClassify_UndefinedRowFails(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) { f.MALong[0] = math.NaN() })
	if _, err := Classify(f); !errors.Is(err, ErrFrameUndefined) {
		t.Errorf("err = %v, want ErrFrameUndefined", err)
	}
}

func TestClassify_TooShortFrameFails(t *testing.T) {
	f := &model.IndicatorFrame{
		Bars:    []model.PriceBar{{Close: 100}},
		MAShort: []float64{100},
	}
	if _, err := Classify(f); !errors.Is(err, ErrFrameUndefined) {
		t.Errorf("err = %v, want ErrFrameUndefined", err)
	}
}

func TestClassify_AllStrengthsWithinUnitRange(t *testing.T) {
	f := frameWith(func(f *model.IndicatorFrame) {
		f.RSI[1] = 200 // out-of-range input still clamps
	})
	signals, err := Classify(f)
	if err != nil {
		t.Fatal(err)
	}
	for name, s := range signals {
		if s.Strength < 0 || s.Strength > 1 {
			t.Errorf("%s strength %v outside [0,1]", name, s.Strength)
		}
	}
}
