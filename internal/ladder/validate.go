package ladder

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"LadderSentinel/internal/model"
)

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Violation names one field that broke the input contract.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// InvalidInputError lists every violation found in a TradeContext.
type InvalidInputError struct {
	Violations []Violation
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + " " + v.Reason
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// Fields returns the names of the offending fields.
func (e *InvalidInputError) Fields() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Field
	}
	return out
}

// Validate rejects contexts the engine cannot price. The context is not modified.
func Validate(ctx model.TradeContext) error {
	var vs []Violation
	add := func(field, reason string) { vs = append(vs, Violation{Field: field, Reason: reason}) }

	positive := []struct {
		name string
		v    float64
	}{
		{"market_price", ctx.MarketPrice},
		{"atr", ctx.ATR},
		{"zone_upper", ctx.ZoneUpper},
		{"zone_lower", ctx.ZoneLower},
	}
	for _, f := range positive {
		if !finite(f.v) || f.v <= 0 {
			add(f.name, "must be a positive number")
		}
	}
	// ordering is only checked once both edges are usable prices
	if finite(ctx.ZoneLower) && finite(ctx.ZoneUpper) && ctx.ZoneLower > 0 && ctx.ZoneUpper > 0 &&
		ctx.ZoneLower >= ctx.ZoneUpper {
		add("zone_lower", "must be less than zone_upper")
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"adx", ctx.ADX},
		{"sl_buffer_mult", ctx.SLBufferMult},
		{"tp_mult", ctx.TPMult},
	}
	for _, f := range nonNegative {
		if !finite(f.v) || f.v < 0 {
			add(f.name, "must be a non-negative number")
		}
	}

	switch ctx.Side {
	case model.Long, model.Short:
	default:
		add("side", fmt.Sprintf("must be %s or %s", model.Long, model.Short))
	}
	switch ctx.RSITrigger {
	case "", model.RSINone, model.RSICrossedUp20, model.RSICrossedUp50:
	default:
		add("rsi_trigger", "unknown value")
	}
	switch ctx.MACD {
	case "", model.MACDNeutral, model.MACDBullish, model.MACDBearish:
	default:
		add("macd_state", "unknown value")
	}

	if len(vs) > 0 {
		return &InvalidInputError{Violations: vs}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
