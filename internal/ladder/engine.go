// Package ladder computes staggered limit-order ladders with stop-loss,
// take-profit and reward:risk from a trader's market context.
package ladder

import (
	"fmt"

	"LadderSentinel/internal/model"
)

// Compute runs the full pipeline for one context:
// validate, pick rung count and step, build the ladder, derive risk levels
// and report per-rung deltas.
func Compute(ctx model.TradeContext, p Params) (*model.LadderPlan, error) {
	if err := Validate(ctx); err != nil {
		return nil, err
	}
	if ctx.RSITrigger == "" {
		ctx.RSITrigger = model.RSINone
	}
	if ctx.MACD == "" {
		ctx.MACD = model.MACDNeutral
	}

	width := ctx.ZoneUpper - ctx.ZoneLower
	count, k := RungCount(width, ctx.ATR, ctx.ADX, p)
	baseStep := p.BaseStepMult * ctx.ATR
	step := AdjustStep(ctx.Side, baseStep, ctx.MACD, ctx.ATR, p)

	rungs := BuildRungs(ctx.Side, ctx.MarketPrice, step, count, ctx.ZoneLower, ctx.ZoneUpper)
	for i := range rungs {
		rungs[i].Delta, rungs[i].DeltaPct, rungs[i].Direction = Delta(rungs[i].Price, ctx.MarketPrice, ctx.Side)
	}

	sl, tp, rr := RiskLevels(ctx, p)

	return &model.LadderPlan{
		Side:            ctx.Side,
		MarketPrice:     ctx.MarketPrice,
		Rungs:           rungs,
		RungCount:       count,
		ZoneWidth:       width,
		WidthToATRRatio: k,
		BaseStep:        baseStep,
		AdjustedStep:    step,
		StopLoss:        sl,
		TakeProfit:      tp,
		RewardRiskRatio: rr,
		SLRule:          slRule(ctx),
		TPRule:          tpRule(ctx),
		ATR:             ctx.ATR,
		MACD:            ctx.MACD,
		RSITrigger:      ctx.RSITrigger,
	}, nil
}

func slRule(ctx model.TradeContext) string {
	if ctx.Side == model.Short {
		return fmt.Sprintf("UZ + %.1f×ATR", ctx.SLBufferMult)
	}
	return fmt.Sprintf("LZ − %.1f×ATR", ctx.SLBufferMult)
}

func tpRule(ctx model.TradeContext) string {
	if ctx.Side == model.Short {
		return fmt.Sprintf("Entry − %.1f×ATR", ctx.TPMult)
	}
	return fmt.Sprintf("Entry + %.1f×ATR", ctx.TPMult)
}
