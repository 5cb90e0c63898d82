package calculator

import (
	"errors"

	"LadderSentinel/internal/model"
)

// CalculateMACD returns the latest MACD line, signal line and histogram.
func CalculateMACD(bars []model.OHLCV, fast, slow, signal int) (macd, sig, hist float64, err error) {
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return 0, 0, 0, errors.New("invalid MACD periods")
	}
	closes := extractCloses(bars)
	if len(closes) < slow+signal-1 {
		return 0, 0, 0, errors.New("not enough data for MACD calculation")
	}
	fastEMA, err := EMASeries(closes, fast)
	if err != nil {
		return 0, 0, 0, err
	}
	slowEMA, err := EMASeries(closes, slow)
	if err != nil {
		return 0, 0, 0, err
	}

	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		line = append(line, fastEMA[i]-slowEMA[i])
	}
	sigSeries, err := EMASeries(line, signal)
	if err != nil {
		return 0, 0, 0, err
	}
	macd = line[len(line)-1]
	sig = sigSeries[len(sigSeries)-1]
	return macd, sig, macd - sig, nil
}

// MACDStateFrom classifies momentum by the sign of the MACD histogram.
func MACDStateFrom(bars []model.OHLCV, fast, slow, signal int) (model.MACDState, error) {
	_, _, hist, err := CalculateMACD(bars, fast, slow, signal)
	if err != nil {
		return model.MACDNeutral, err
	}
	switch {
	case hist > 0:
		return model.MACDBullish, nil
	case hist < 0:
		return model.MACDBearish, nil
	}
	return model.MACDNeutral, nil
}
