package calculator

import (
	"errors"

	"LadderSentinel/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 bars. Returns 50.0 if data is insufficient.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	series, err := rsiSeries(extractCloses(bars), period)
	if err != nil {
		return 0, err
	}
	if len(series) == 0 {
		return 50.0, nil
	}
	return series[len(series)-1], nil
}

// RSITriggerFrom reports an upward RSI crossing of 50 or 20 on the last bar.
// When both levels are crossed on the same bar, 50 wins.
func RSITriggerFrom(bars []model.OHLCV, period int) (model.RSITrigger, error) {
	series, err := rsiSeries(extractCloses(bars), period)
	if err != nil {
		return model.RSINone, err
	}
	if len(series) < 2 {
		return model.RSINone, nil
	}
	prev, last := series[len(series)-2], series[len(series)-1]
	switch {
	case prev < 50 && last >= 50:
		return model.RSICrossedUp50, nil
	case prev < 20 && last >= 20:
		return model.RSICrossedUp20, nil
	}
	return model.RSINone, nil
}

// rsiSeries returns one RSI value per close from index period onward.
func rsiSeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return nil, nil
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]float64, 0, len(closes)-period)
	out = append(out, rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out = append(out, rsiValue(avgGain, avgLoss))
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
