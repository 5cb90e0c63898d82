package calculator

import (
	"errors"
	"math"

	"LadderSentinel/internal/model"
)

// CalculateATR computes the Wilder-smoothed Average True Range over period.
// Requires at least period+1 bars.
func CalculateATR(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, errors.New("not enough data for ATR calculation")
	}
	trs := trueRanges(bars)

	atr := 0.0
	for i := 0; i < period; i++ {
		atr += trs[i]
	}
	atr /= float64(period)
	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
	}
	return atr, nil
}

// trueRanges returns len(bars)-1 true ranges, one per bar after the first.
func trueRanges(bars []model.OHLCV) []float64 {
	trs := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		trs = append(trs, math.Max(hl, math.Max(hc, lc)))
	}
	return trs
}
