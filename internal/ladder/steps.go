package ladder

import (
	"math"

	"LadderSentinel/internal/model"
)

// RungCount decides how many ladder entries (including the market reference)
// to place. A wide zone relative to ATR supports three; a strong trend (high
// ADX) removes one, never going below two. The width/ATR ratio k is returned
// for reporting.
func RungCount(width, atr, adx float64, p Params) (int, float64) {
	if atr <= 0 {
		return 2, 0.0
	}
	k := width / atr
	count := 3
	if k < p.WideZoneK {
		count = 2
	}
	if adx >= p.StrongTrendADX {
		count = max(2, count-1)
	}
	return count, k
}

// AdjustStep nudges the base step by NudgeMult×ATR according to MACD.
// Momentum in the trade's favour tightens the ladder (floored at 0),
// momentum against it widens the ladder.
func AdjustStep(side model.Side, baseStep float64, macd model.MACDState, atr float64, p Params) float64 {
	if macd == "" || macd == model.MACDNeutral {
		return baseStep
	}
	nudge := p.NudgeMult * atr
	agrees := (side == model.Long && macd == model.MACDBullish) ||
		(side == model.Short && macd == model.MACDBearish)
	if agrees {
		return math.Max(0, baseStep-nudge)
	}
	return baseStep + nudge
}

// BuildRungs lays the ladder out from the market price. Rung 0 is the market
// itself and is never clamped; every following rung steps one adjustedStep
// further from the previous one and is clamped into [lower, upper]. Deltas are
// filled in by the caller.
func BuildRungs(side model.Side, market, step float64, count int, lower, upper float64) []model.Rung {
	sign := -1.0
	if side == model.Short {
		sign = 1.0
	}

	rungs := make([]model.Rung, 0, count)
	rungs = append(rungs, model.Rung{Index: 0, Price: market})

	prev := market
	for i := 1; i < count; i++ {
		px := clamp(prev+sign*step, lower, upper)
		rungs = append(rungs, model.Rung{
			Index:   i,
			Price:   px,
			Clipped: px == lower || px == upper,
		})
		prev = px
	}
	return rungs
}

// RiskLevels returns stop-loss, take-profit and reward:risk. The stop sits
// beyond the zone edge and the target beyond market; neither is clamped.
func RiskLevels(ctx model.TradeContext, p Params) (stopLoss, takeProfit, rr float64) {
	if ctx.Side == model.Short {
		stopLoss = ctx.ZoneUpper + ctx.SLBufferMult*ctx.ATR
		takeProfit = ctx.MarketPrice - ctx.TPMult*ctx.ATR
		rr = (ctx.MarketPrice - takeProfit) / math.Max(stopLoss-ctx.MarketPrice, p.RREpsilon)
		return stopLoss, takeProfit, rr
	}
	stopLoss = ctx.ZoneLower - ctx.SLBufferMult*ctx.ATR
	takeProfit = ctx.MarketPrice + ctx.TPMult*ctx.ATR
	rr = (takeProfit - ctx.MarketPrice) / math.Max(ctx.MarketPrice-stopLoss, p.RREpsilon)
	return stopLoss, takeProfit, rr
}

// Delta reports the distance of px from market, in price and percent, and
// which side of the market it sits on.
func Delta(px, market float64, side model.Side) (float64, float64, model.Direction) {
	d := math.Abs(px - market)
	pct := 0.0
	if market > 0 {
		pct = d / market * 100
	}

	var dir model.Direction
	if side == model.Long {
		dir = model.Above
		if px < market {
			dir = model.Below
		}
	} else {
		dir = model.Below
		if px > market {
			dir = model.Above
		}
	}
	return d, pct, dir
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
