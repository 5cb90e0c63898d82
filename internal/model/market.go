package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Indicators holds the signals derived from a bar series. Zero values mean "not derived".
type Indicators struct {
	Price      float64
	ATR        float64
	ADX        float64
	RSI        float64
	RSITrigger RSITrigger
	MACD       MACDState
	ZoneUpper  float64
	ZoneLower  float64
}

// Apply copies the derived signals into ctx. Signals that were not derived
// leave ctx unchanged. Explicit caller input is applied after Apply so it wins.
func (ind *Indicators) Apply(ctx *TradeContext) {
	if ind.Price > 0 {
		ctx.MarketPrice = ind.Price
	}
	if ind.ATR > 0 {
		ctx.ATR = ind.ATR
	}
	if ind.ADX > 0 {
		ctx.ADX = ind.ADX
	}
	if ind.RSITrigger != "" {
		ctx.RSITrigger = ind.RSITrigger
	}
	if ind.MACD != "" {
		ctx.MACD = ind.MACD
	}
	if ind.ZoneUpper > 0 && ind.ZoneLower > 0 {
		ctx.ZoneUpper = ind.ZoneUpper
		ctx.ZoneLower = ind.ZoneLower
	}
}
