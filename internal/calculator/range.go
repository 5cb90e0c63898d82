package calculator

import (
	"errors"
	"math"

	"LadderSentinel/internal/model"
)

// RecentRange scans the most recent n bars and returns the highest high and
// lowest low. Used as a default support/resistance zone.
func RecentRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	if n <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	if high <= low {
		return 0, 0, errors.New("flat range")
	}
	return high, low, nil
}
