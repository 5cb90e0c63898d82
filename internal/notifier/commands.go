package notifier

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"LadderSentinel/internal/model"
)

// SplitCommand separates "/cmd@bot arg1 arg2" into "/cmd" and its arguments.
func SplitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, fields[1:]
}

// ParseLadderArgs builds a TradeContext from
// "<side> <market> <upper> <lower> <atr> [key=value...]" on top of base.
// Options not given keep the value from base; options given replace it, zero included.
func ParseLadderArgs(args []string, base model.TradeContext) (model.TradeContext, error) {
	ctx := base
	if len(args) < 5 {
		return ctx, errors.New("expected side, market, upper zone, lower zone and ATR")
	}

	side, err := model.ParseSide(args[0])
	if err != nil {
		return ctx, err
	}
	ctx.Side = side

	nums := []struct {
		name string
		dst  *float64
	}{
		{"market", &ctx.MarketPrice},
		{"upper zone", &ctx.ZoneUpper},
		{"lower zone", &ctx.ZoneLower},
		{"ATR", &ctx.ATR},
	}
	for i, n := range nums {
		v, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return ctx, fmt.Errorf("%s: %q is not a number", n.name, args[i+1])
		}
		*n.dst = v
	}

	for _, opt := range args[5:] {
		key, val, ok := strings.Cut(opt, "=")
		if !ok {
			return ctx, fmt.Errorf("option %q must be key=value", opt)
		}
		switch strings.ToLower(key) {
		case "adx":
			ctx.ADX, err = strconv.ParseFloat(val, 64)
		case "sl", "slbuf":
			ctx.SLBufferMult, err = strconv.ParseFloat(val, 64)
		case "tp":
			ctx.TPMult, err = strconv.ParseFloat(val, 64)
		case "macd":
			ctx.MACD, err = model.ParseMACDState(val)
		case "rsi":
			ctx.RSITrigger, err = model.ParseRSITrigger(val)
		default:
			return ctx, fmt.Errorf("unknown option %q", key)
		}
		if err != nil {
			return ctx, fmt.Errorf("option %s: %w", key, err)
		}
	}
	return ctx, nil
}
