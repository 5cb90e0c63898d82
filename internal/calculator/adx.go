package calculator

import (
	"errors"
	"math"

	"LadderSentinel/internal/model"
)

// CalculateADX computes Wilder's Average Directional Index over period.
// Requires at least 2*period+1 bars.
func CalculateADX(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < 2*period+1 {
		return 0, errors.New("not enough data for ADX calculation")
	}

	trs := trueRanges(bars)
	plusDM := make([]float64, len(trs))
	minusDM := make([]float64, len(trs))
	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}

	var sTR, sPlus, sMinus float64
	for i := 0; i < period; i++ {
		sTR += trs[i]
		sPlus += plusDM[i]
		sMinus += minusDM[i]
	}

	dxs := []float64{dx(sPlus, sMinus, sTR)}
	p := float64(period)
	for i := period; i < len(trs); i++ {
		sTR = sTR - sTR/p + trs[i]
		sPlus = sPlus - sPlus/p + plusDM[i]
		sMinus = sMinus - sMinus/p + minusDM[i]
		dxs = append(dxs, dx(sPlus, sMinus, sTR))
	}

	adx := 0.0
	for i := 0; i < period; i++ {
		adx += dxs[i]
	}
	adx /= p
	for i := period; i < len(dxs); i++ {
		adx = (adx*(p-1) + dxs[i]) / p
	}
	return adx, nil
}

func dx(plusDM, minusDM, tr float64) float64 {
	if tr == 0 {
		return 0
	}
	plusDI := plusDM / tr * 100
	minusDI := minusDM / tr * 100
	if plusDI+minusDI == 0 {
		return 0
	}
	return math.Abs(plusDI-minusDI) / (plusDI + minusDI) * 100
}
