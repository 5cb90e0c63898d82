// Command ladder computes one ladder plan from flags and prints it.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"LadderSentinel/internal/collector"
	"LadderSentinel/internal/config"
	"LadderSentinel/internal/ladder"
	"LadderSentinel/internal/logging"
	"LadderSentinel/internal/metrics"
	"LadderSentinel/internal/model"
	"LadderSentinel/internal/notifier"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ladder", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		side     = fs.String("side", "long", "trade direction: long or short")
		market   = fs.Float64("market", 0, "market price")
		upper    = fs.Float64("upper", 0, "upper zone")
		lower    = fs.Float64("lower", 0, "lower zone")
		atr      = fs.Float64("atr", 0, "ATR (4h, 14)")
		adx      = fs.Float64("adx", 0, "ADX (4h, 14), optional")
		rsi      = fs.String("rsi", "none", "RSI-3 trigger: none, 20 or 50")
		macd     = fs.String("macd", "neutral", "MACD (1h, 12-26-9): neutral, bullish or bearish")
		slBuf    = fs.Float64("sl", 0, "stop-loss buffer × ATR, presets "+notifier.SLBufferChoices()+" (default from config)")
		tp       = fs.Float64("tp", 0, "take-profit × ATR (default from config)")
		bars     = fs.String("bars", "", "CSV of bars (time,open,high,low,close[,volume]) to derive inputs from; flags given explicitly win")
		cfgPath  = fs.String("config", "configs/config.yaml", "config file")
		asJSON   = fs.Bool("json", false, "print the plan as JSON")
		logLevel = fs.String("log-level", "warn", "log level")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	logging.SetupWriter(stderr, *logLevel)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Engine.Params.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	// Config defaults, then signals derived from -bars, then flags given on the
	// command line, zero included.
	ctx := cfg.BaseContext()
	if ctx.Side, err = model.ParseSide(*side); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if *bars != "" {
		ind, err := collector.NewCollector(collector.NewCSVSource(*bars)).Collect()
		if err != nil {
			fmt.Fprintf(stderr, "derive indicators: %v\n", err)
			return 1
		}
		ind.Apply(&ctx)
	}
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "market":
			ctx.MarketPrice = *market
		case "upper":
			ctx.ZoneUpper = *upper
		case "lower":
			ctx.ZoneLower = *lower
		case "atr":
			ctx.ATR = *atr
		case "adx":
			ctx.ADX = *adx
		case "sl":
			ctx.SLBufferMult = *slBuf
		case "tp":
			ctx.TPMult = *tp
		case "rsi":
			ctx.RSITrigger, err = model.ParseRSITrigger(*rsi)
		case "macd":
			ctx.MACD, err = model.ParseMACDState(*macd)
		}
		if err != nil && flagErr == nil {
			flagErr = err
		}
	})
	if flagErr != nil {
		fmt.Fprintln(stderr, flagErr)
		return 2
	}

	plan, err := metrics.Compute("cli", ctx, cfg.Params())
	if err != nil {
		var iie *ladder.InvalidInputError
		if errors.As(err, &iie) {
			fmt.Fprintln(stderr, "Invalid input:")
			for _, v := range iie.Violations {
				fmt.Fprintf(stderr, "  %s %s\n", v.Field, v.Reason)
			}
			return 1
		}
		log.Error().Err(err).Msg("compute ladder")
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			fmt.Fprintf(stderr, "encode: %v\n", err)
			return 1
		}
		return 0
	}
	printPlan(stdout, plan)
	return 0
}

func printPlan(w io.Writer, plan *model.LadderPlan) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Ladder\tPrice\tΔ\tΔ%%\tWhere\t\n")
	for _, r := range plan.Rungs {
		name := fmt.Sprintf("L%d", r.Index)
		if r.Index == 0 {
			name += " (market)"
		}
		if r.Clipped {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.2f%%\t%s market\t\n", name, r.Price, r.Delta, r.DeltaPct, r.Direction)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stop Loss      %.4f  (%s)\n", plan.StopLoss, plan.SLRule)
	fmt.Fprintf(w, "Take Profit    %.4f  (%s)\n", plan.TakeProfit, plan.TPRule)
	fmt.Fprintf(w, "Reward : Risk  %.2f : 1\n", plan.RewardRiskRatio)
	fmt.Fprintln(w)
	fmt.Fprintln(w, notifier.FormatSummary(plan))
	if plan.RSITrigger != model.RSINone {
		fmt.Fprintf(w, "RSI-3 trigger: %s\n", plan.RSITrigger.Label())
	}
	for _, r := range plan.Rungs {
		if r.Clipped {
			fmt.Fprintln(w, "* clamped onto the zone edge")
			break
		}
	}
}
