package ladder

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"LadderSentinel/internal/model"
)

func scenarioA() model.TradeContext {
	return model.TradeContext{
		Side:         model.Long,
		MarketPrice:  100,
		ZoneUpper:    102,
		ZoneLower:    96,
		ATR:          4,
		ADX:          0,
		MACD:         model.MACDNeutral,
		SLBufferMult: 1.0,
		TPMult:       2.0,
	}
}

func TestCompute_ScenarioA_LongThreeRungs(t *testing.T) {
	plan, err := Compute(scenarioA(), DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.WidthToATRRatio != 1.5 {
		t.Errorf("expected k=1.5, got %.4f", plan.WidthToATRRatio)
	}
	if plan.RungCount != 3 || len(plan.Rungs) != 3 {
		t.Fatalf("expected 3 rungs, got count=%d len=%d", plan.RungCount, len(plan.Rungs))
	}
	if plan.BaseStep != 2.0 || plan.AdjustedStep != 2.0 {
		t.Errorf("expected steps 2.0/2.0, got %.4f/%.4f", plan.BaseStep, plan.AdjustedStep)
	}
	want := []float64{100, 98, 96}
	if got := plan.Prices(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected rungs %v, got %v", want, got)
	}
	if plan.Rungs[1].Clipped {
		t.Error("rung 1 should not be clipped")
	}
	if !plan.Rungs[2].Clipped {
		t.Error("rung 2 should be clipped at the lower zone edge")
	}
	if plan.StopLoss != 92 {
		t.Errorf("expected stop loss 92, got %.4f", plan.StopLoss)
	}
	if plan.TakeProfit != 108 {
		t.Errorf("expected take profit 108, got %.4f", plan.TakeProfit)
	}
	if plan.RewardRiskRatio != 1.0 {
		t.Errorf("expected reward:risk 1.0, got %.4f", plan.RewardRiskRatio)
	}
	if plan.SLRule != "LZ − 1.0×ATR" || plan.TPRule != "Entry + 2.0×ATR" {
		t.Errorf("unexpected rules %q / %q", plan.SLRule, plan.TPRule)
	}
}

func TestCompute_ScenarioB_TrendOverride(t *testing.T) {
	ctx := scenarioA()
	ctx.Side = model.Short
	ctx.MarketPrice = 98
	ctx.ADX = 30

	plan, err := Compute(ctx, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.WidthToATRRatio != 1.5 {
		t.Errorf("expected k=1.5, got %.4f", plan.WidthToATRRatio)
	}
	if plan.RungCount != 2 {
		t.Fatalf("expected ADX override to 2 rungs, got %d", plan.RungCount)
	}
	if got := plan.Prices(); !reflect.DeepEqual(got, []float64{98, 100}) {
		t.Errorf("unexpected rungs %v", got)
	}
	if plan.StopLoss != 106 || plan.TakeProfit != 90 {
		t.Errorf("expected sl=106 tp=90, got sl=%.4f tp=%.4f", plan.StopLoss, plan.TakeProfit)
	}
	if plan.Rungs[1].Direction != model.Above {
		t.Errorf("short rung above market should be labelled above, got %s", plan.Rungs[1].Direction)
	}
}

func TestCompute_ScenarioC_BullishShrinksStep(t *testing.T) {
	ctx := scenarioA()
	ctx.MACD = model.MACDBullish

	plan, err := Compute(ctx, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.AdjustedStep != 1.0 {
		t.Errorf("expected adjusted step 1.0, got %.4f", plan.AdjustedStep)
	}
	if got := plan.Prices(); !reflect.DeepEqual(got, []float64{100, 99, 98}) {
		t.Errorf("unexpected rungs %v", got)
	}
	for _, r := range plan.Rungs[1:] {
		if r.Clipped {
			t.Errorf("rung %d should not be clipped", r.Index)
		}
	}
}

func TestCompute_ScenarioD_TightZone(t *testing.T) {
	ctx := model.TradeContext{
		Side:         model.Long,
		MarketPrice:  100,
		ZoneUpper:    100.5,
		ZoneLower:    99.5,
		ATR:          1,
		SLBufferMult: 1.0,
		TPMult:       2.0,
	}
	plan, err := Compute(ctx, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RungCount != 2 {
		t.Fatalf("expected 2 rungs for k=1, got %d", plan.RungCount)
	}
	if plan.Rungs[1].Price == plan.Rungs[0].Price {
		t.Error("rung 1 must differ from market")
	}
	if plan.Rungs[1].Price != 99.5 || !plan.Rungs[1].Clipped {
		t.Errorf("expected rung 1 clipped at 99.5, got %.4f clipped=%v", plan.Rungs[1].Price, plan.Rungs[1].Clipped)
	}

	// A looser threshold forces a third rung, which collapses onto rung 1.
	p := DefaultParams()
	p.WideZoneK = 0.5
	plan, err = Compute(ctx, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.RungCount != 3 {
		t.Fatalf("expected 3 rungs, got %d", plan.RungCount)
	}
	if plan.Rungs[2].Price != plan.Rungs[1].Price {
		t.Errorf("expected duplicate rung at zone edge, got %.4f and %.4f", plan.Rungs[1].Price, plan.Rungs[2].Price)
	}
}

func TestCompute_RSITriggerDoesNotMovePrices(t *testing.T) {
	base, err := Compute(scenarioA(), DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, trig := range []model.RSITrigger{model.RSICrossedUp20, model.RSICrossedUp50} {
		ctx := scenarioA()
		ctx.RSITrigger = trig
		plan, err := Compute(ctx, DefaultParams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.RSITrigger != trig {
			t.Errorf("expected trigger %s echoed, got %s", trig, plan.RSITrigger)
		}
		plan.RSITrigger = base.RSITrigger
		if !reflect.DeepEqual(plan, base) {
			t.Errorf("trigger %s changed the plan", trig)
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	ctx := scenarioA()
	ctx.MACD = model.MACDBearish
	ctx.ADX = 12.5
	a, err := Compute(ctx, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := Compute(ctx, DefaultParams())
	if !reflect.DeepEqual(a, b) {
		t.Error("identical contexts produced different plans")
	}
}

func TestValidate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.TradeContext)
		field  string
	}{
		{"zero market", func(c *model.TradeContext) { c.MarketPrice = 0 }, "market_price"},
		{"negative market", func(c *model.TradeContext) { c.MarketPrice = -1 }, "market_price"},
		{"zero atr", func(c *model.TradeContext) { c.ATR = 0 }, "atr"},
		{"nan atr", func(c *model.TradeContext) { c.ATR = math.NaN() }, "atr"},
		{"zero upper", func(c *model.TradeContext) { c.ZoneUpper = 0 }, "zone_upper"},
		{"negative lower", func(c *model.TradeContext) { c.ZoneLower = -3 }, "zone_lower"},
		{"lower equals upper", func(c *model.TradeContext) { c.ZoneLower = c.ZoneUpper }, "zone_lower"},
		{"lower above upper", func(c *model.TradeContext) { c.ZoneLower = 103 }, "zone_lower"},
		{"negative adx", func(c *model.TradeContext) { c.ADX = -1 }, "adx"},
		{"negative sl buffer", func(c *model.TradeContext) { c.SLBufferMult = -0.5 }, "sl_buffer_mult"},
		{"unknown side", func(c *model.TradeContext) { c.Side = "Flat" }, "side"},
		{"unknown macd", func(c *model.TradeContext) { c.MACD = "Sideways" }, "macd_state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := scenarioA()
			tt.mutate(&ctx)
			plan, err := Compute(ctx, DefaultParams())
			if plan != nil {
				t.Error("expected no plan on invalid input")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var iie *InvalidInputError
			if !errors.As(err, &iie) {
				t.Fatalf("expected *InvalidInputError, got %T", err)
			}
			found := false
			for _, f := range iie.Fields() {
				if f == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field %s in %v", tt.field, iie.Fields())
			}
		})
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	err := Validate(model.TradeContext{Side: model.Long})
	var iie *InvalidInputError
	if !errors.As(err, &iie) {
		t.Fatalf("expected *InvalidInputError, got %v", err)
	}
	want := []string{"market_price", "atr", "zone_upper", "zone_lower"}
	if !reflect.DeepEqual(iie.Fields(), want) {
		t.Errorf("expected violations %v, got %v", want, iie.Fields())
	}
}

func TestValidate_ZoneOrderNotRepeatedForBadEdge(t *testing.T) {
	ctx := scenarioA()
	ctx.ZoneUpper = 0
	err := Validate(ctx)
	var iie *InvalidInputError
	if !errors.As(err, &iie) {
		t.Fatalf("expected *InvalidInputError, got %v", err)
	}
	if len(iie.Violations) != 1 || iie.Violations[0].Field != "zone_upper" {
		t.Errorf("expected only zone_upper, got %v", iie.Violations)
	}
}

func TestRungCount(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		width, atr, adx float64
		count           int
		k               float64
	}{
		{6, 0, 0, 2, 0},
		{4, 4, 0, 2, 1},
		{4.8, 4, 0, 3, 1.2},
		{6, 4, 24.9, 3, 1.5},
		{6, 4, 25, 2, 1.5},
		{2, 4, 40, 2, 0.5},
	}
	for _, tt := range tests {
		count, k := RungCount(tt.width, tt.atr, tt.adx, p)
		if count != tt.count || math.Abs(k-tt.k) > 1e-9 {
			t.Errorf("RungCount(%v,%v,%v) = (%d, %.4f), want (%d, %.4f)",
				tt.width, tt.atr, tt.adx, count, k, tt.count, tt.k)
		}
	}
}

func TestRungCount_Monotonic(t *testing.T) {
	p := DefaultParams()
	for _, adx := range []float64{0, 10, 25, 50} {
		prev := 0
		for w := 0.5; w <= 20; w += 0.25 {
			count, _ := RungCount(w, 4, adx, p)
			if count < prev {
				t.Fatalf("adx=%v: rung count dropped from %d to %d at width %.2f", adx, prev, count, w)
			}
			prev = count
		}
	}
	for w := 0.5; w <= 20; w += 0.25 {
		weak, _ := RungCount(w, 4, 10, p)
		strong, _ := RungCount(w, 4, 30, p)
		if strong > weak {
			t.Fatalf("width %.2f: strong trend increased rung count %d > %d", w, strong, weak)
		}
	}
}

func TestAdjustStep(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		side model.Side
		base float64
		macd model.MACDState
		want float64
	}{
		{model.Long, 2, model.MACDNeutral, 2},
		{model.Long, 2, model.MACDBullish, 1},
		{model.Long, 2, model.MACDBearish, 3},
		{model.Short, 2, model.MACDBearish, 1},
		{model.Short, 2, model.MACDBullish, 3},
		{model.Long, 0.5, model.MACDBullish, 0},
	}
	for _, tt := range tests {
		if got := AdjustStep(tt.side, tt.base, tt.macd, 4, p); got != tt.want {
			t.Errorf("AdjustStep(%s, %v, %s) = %v, want %v", tt.side, tt.base, tt.macd, got, tt.want)
		}
	}
}

func TestCompute_RungsStayInZone(t *testing.T) {
	p := DefaultParams()
	for _, side := range []model.Side{model.Long, model.Short} {
		for _, macd := range []model.MACDState{model.MACDNeutral, model.MACDBullish, model.MACDBearish} {
			for _, market := range []float64{90, 97, 100, 101.5, 110} {
				for _, atr := range []float64{0.5, 2, 4, 12} {
					ctx := model.TradeContext{
						Side: side, MarketPrice: market, ZoneUpper: 102, ZoneLower: 96,
						ATR: atr, MACD: macd, SLBufferMult: 1.5, TPMult: 2,
					}
					plan, err := Compute(ctx, p)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if plan.Rungs[0].Price != market {
						t.Fatalf("rung 0 must equal market %v, got %v", market, plan.Rungs[0].Price)
					}
					if plan.Rungs[0].Delta != 0 || plan.Rungs[0].DeltaPct != 0 {
						t.Fatalf("rung 0 must have zero delta, got %v", plan.Rungs[0])
					}
					for _, r := range plan.Rungs[1:] {
						if r.Price < ctx.ZoneLower || r.Price > ctx.ZoneUpper {
							t.Fatalf("%s market=%v atr=%v: rung %d at %v outside zone", side, market, atr, r.Index, r.Price)
						}
					}
					if plan.RewardRiskRatio < 0 {
						t.Fatalf("negative reward:risk %v", plan.RewardRiskRatio)
					}
				}
			}
		}
	}
}

func TestRiskLevels_ZeroRiskUsesEpsilon(t *testing.T) {
	ctx := model.TradeContext{
		Side: model.Long, MarketPrice: 96, ZoneUpper: 102, ZoneLower: 96,
		ATR: 4, SLBufferMult: 0, TPMult: 2,
	}
	sl, tp, rr := RiskLevels(ctx, DefaultParams())
	if sl != 96 || tp != 104 {
		t.Errorf("expected sl=96 tp=104, got %v %v", sl, tp)
	}
	if math.IsInf(rr, 0) || rr <= 0 {
		t.Errorf("expected a finite positive ratio, got %v", rr)
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		px, market float64
		side       model.Side
		delta, pct float64
		dir        model.Direction
	}{
		{98, 100, model.Long, 2, 2, model.Below},
		{100, 100, model.Long, 0, 0, model.Above},
		{100, 100, model.Short, 0, 0, model.Below},
		{102, 100, model.Short, 2, 2, model.Above},
		{5, 0, model.Long, 5, 0, model.Above},
	}
	for _, tt := range tests {
		d, pct, dir := Delta(tt.px, tt.market, tt.side)
		if d != tt.delta || pct != tt.pct || dir != tt.dir {
			t.Errorf("Delta(%v, %v, %s) = (%v, %v, %s), want (%v, %v, %s)",
				tt.px, tt.market, tt.side, d, pct, dir, tt.delta, tt.pct, tt.dir)
		}
	}
}
