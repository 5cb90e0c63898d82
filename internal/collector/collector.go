package collector

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"LadderSentinel/internal/calculator"
	"LadderSentinel/internal/model"
)

// Indicator periods shown on the calculator: ATR(14), ADX(14), RSI-3, MACD(12-26-9).
const (
	ATRPeriod    = 14
	ADXPeriod    = 14
	RSIPeriod    = 3
	MACDFast     = 12
	MACDSlow     = 26
	MACDSignal   = 9
	ZoneLookback = 20
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Price float64
	Data  []model.OHLCV
	Count int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Bars() ([]model.OHLCV, error) {
	if m.Data != nil {
		return m.Data, nil
	}
	n := m.Count
	if n == 0 {
		n = 60
	}
	return generateMockBars(m.Price, n), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * 4 * time.Hour),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector derives the optional ladder signals from a bar source.
type Collector struct {
	Source BarSource
}

// NewCollector creates a new Collector.
func NewCollector(src BarSource) *Collector {
	return &Collector{Source: src}
}

// Collect loads bars and computes every indicator it can. A failed indicator
// is logged and left at its zero value, which Apply skips.
func (c *Collector) Collect() (*model.Indicators, error) {
	bars, err := c.Source.Bars()
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars from %s", c.Source.Name())
	}
	logger := log.With().Str("component", "collector").Str("source", c.Source.Name()).Logger()

	ind := &model.Indicators{Price: bars[len(bars)-1].Close}

	if atr, err := calculator.CalculateATR(bars, ATRPeriod); err != nil {
		logger.Warn().Err(err).Msg("ATR calculation failed")
	} else {
		ind.ATR = atr
	}

	if adx, err := calculator.CalculateADX(bars, ADXPeriod); err != nil {
		logger.Warn().Err(err).Msg("ADX calculation failed, treating trend as absent")
	} else {
		ind.ADX = adx
	}

	if rsi, err := calculator.CalculateRSI(bars, RSIPeriod); err != nil {
		logger.Warn().Err(err).Msg("RSI calculation failed")
	} else {
		ind.RSI = rsi
	}

	if trig, err := calculator.RSITriggerFrom(bars, RSIPeriod); err != nil {
		logger.Warn().Err(err).Msg("RSI trigger calculation failed")
	} else {
		ind.RSITrigger = trig
	}

	if state, err := calculator.MACDStateFrom(bars, MACDFast, MACDSlow, MACDSignal); err != nil {
		logger.Warn().Err(err).Msg("MACD calculation failed, defaulting to Neutral")
		ind.MACD = model.MACDNeutral
	} else {
		ind.MACD = state
	}

	if h, l, err := calculator.RecentRange(bars, ZoneLookback); err != nil {
		logger.Warn().Err(err).Msg("zone suggestion failed")
	} else {
		ind.ZoneUpper = h
		ind.ZoneLower = l
	}

	logger.Info().
		Int("bars", len(bars)).
		Float64("price", ind.Price).
		Float64("atr", ind.ATR).
		Float64("adx", ind.ADX).
		Float64("rsi3", ind.RSI).
		Str("macd", string(ind.MACD)).
		Str("rsi_trigger", string(ind.RSITrigger)).
		Msg("indicators derived")
	return ind, nil
}
