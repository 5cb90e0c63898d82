package model

import (
	"fmt"
	"strings"
)

// Side is the directional bias of the trade.
type Side string

const (
	Long  Side = "Long"
	Short Side = "Short"
)

// RSITrigger is the RSI-3 crossing the trader observed. Annotation only.
type RSITrigger string

const (
	RSINone        RSITrigger = "None"
	RSICrossedUp20 RSITrigger = "CrossedUp20"
	RSICrossedUp50 RSITrigger = "CrossedUp50"
)

// MACDState is the momentum classification from MACD(12,26,9).
type MACDState string

const (
	MACDNeutral MACDState = "Neutral"
	MACDBullish MACDState = "Bullish"
	MACDBearish MACDState = "Bearish"
)

// Direction says where a rung sits relative to the market price.
type Direction string

const (
	Below Direction = "below"
	Above Direction = "above"
)

// ParseSide accepts "long"/"short" in any case, plus "buy"/"sell".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return Long, nil
	case "short", "sell":
		return Short, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// ParseRSITrigger accepts the enum names, the calculator's display labels
// ("Crossed 20↑") and the bare levels "20"/"50". Empty means None.
func ParseRSITrigger(s string) (RSITrigger, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer(" ", "", "↑", "", "_", "", "-", "").Replace(v)
	switch v {
	case "", "none":
		return RSINone, nil
	case "crossedup20", "crossed20", "20":
		return RSICrossedUp20, nil
	case "crossedup50", "crossed50", "50":
		return RSICrossedUp50, nil
	}
	return "", fmt.Errorf("unknown rsi trigger %q", s)
}

// ParseMACDState accepts the enum names in any case. Empty means Neutral.
func ParseMACDState(s string) (MACDState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "neutral":
		return MACDNeutral, nil
	case "bullish", "bull":
		return MACDBullish, nil
	case "bearish", "bear":
		return MACDBearish, nil
	}
	return "", fmt.Errorf("unknown macd state %q", s)
}

// Label returns the human label shown next to the trigger.
func (t RSITrigger) Label() string {
	switch t {
	case RSICrossedUp20:
		return "Crossed 20↑"
	case RSICrossedUp50:
		return "Crossed 50↑"
	}
	return "None"
}

// TradeContext is the input of one ladder computation.
type TradeContext struct {
	Side         Side       `json:"side" yaml:"side"`
	MarketPrice  float64    `json:"market_price" yaml:"market_price"`
	ZoneUpper    float64    `json:"zone_upper" yaml:"zone_upper"`
	ZoneLower    float64    `json:"zone_lower" yaml:"zone_lower"`
	ATR          float64    `json:"atr" yaml:"atr"`
	ADX          float64    `json:"adx" yaml:"adx"`
	RSITrigger   RSITrigger `json:"rsi_trigger" yaml:"rsi_trigger"`
	MACD         MACDState  `json:"macd_state" yaml:"macd_state"`
	SLBufferMult float64    `json:"sl_buffer_mult" yaml:"sl_buffer_mult"`
	TPMult       float64    `json:"tp_mult" yaml:"tp_mult"`
}

// Rung is one level of the ladder. Index 0 is the market reference.
type Rung struct {
	Index     int       `json:"index"`
	Price     float64   `json:"price"`
	Delta     float64   `json:"delta"`
	DeltaPct  float64   `json:"delta_pct"`
	Direction Direction `json:"direction"`
	Clipped   bool      `json:"clipped"`
}

// LadderPlan is the output of one ladder computation.
type LadderPlan struct {
	Side            Side       `json:"side"`
	MarketPrice     float64    `json:"market_price"`
	Rungs           []Rung     `json:"rungs"`
	RungCount       int        `json:"rung_count"`
	ZoneWidth       float64    `json:"zone_width"`
	WidthToATRRatio float64    `json:"width_to_atr_ratio"`
	BaseStep        float64    `json:"base_step"`
	AdjustedStep    float64    `json:"adjusted_step"`
	StopLoss        float64    `json:"stop_loss"`
	TakeProfit      float64    `json:"take_profit"`
	RewardRiskRatio float64    `json:"reward_risk_ratio"`
	SLRule          string     `json:"sl_rule"`
	TPRule          string     `json:"tp_rule"`
	ATR             float64    `json:"atr"`
	MACD            MACDState  `json:"macd_state"`
	RSITrigger      RSITrigger `json:"rsi_trigger"`
}

// Prices returns the rung prices in ladder order.
func (p *LadderPlan) Prices() []float64 {
	out := make([]float64, len(p.Rungs))
	for i, r := range p.Rungs {
		out[i] = r.Price
	}
	return out
}
