package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"LadderSentinel/internal/ladder"
	"LadderSentinel/internal/model"
)

// Decimals used for prices; percentages and the ratio use two.
const priceDecimals = 4

// FormatPlan renders a ladder plan as a Telegram HTML message.
func FormatPlan(plan *model.LadderPlan) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Ladder Calculator</b> | %s\n\n", plan.Side))

	for _, r := range plan.Rungs {
		label := fmt.Sprintf("L%d", r.Index)
		if r.Index == 0 {
			label += " (Market Price)"
		}
		clip := ""
		if r.Clipped {
			clip = " ⛔ zone edge"
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>: <code>%s</code>%s\n", label, price(r.Price), clip))
		b.WriteString(fmt.Sprintf("   Δ %s (%.2f%%), %s market\n", price(r.Delta), r.DeltaPct, r.Direction))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("🔴 <b>Stop Loss</b>: <code>%s</code> (%s)\n", price(plan.StopLoss), plan.SLRule))
	b.WriteString(fmt.Sprintf("🟢 <b>Take Profit</b>: <code>%s</code> (%s)\n", price(plan.TakeProfit), plan.TPRule))
	b.WriteString(fmt.Sprintf("🔵 <b>Reward : Risk</b>: <code>%.2f : 1</code>\n\n", plan.RewardRiskRatio))

	b.WriteString(FormatSummary(plan))
	if plan.RSITrigger != "" && plan.RSITrigger != model.RSINone {
		b.WriteString(fmt.Sprintf("\nRSI-3 trigger: %s", plan.RSITrigger.Label()))
	}
	return b.String()
}

// FormatSummary is the one-line diagnostic explaining the rung count and step.
func FormatSummary(plan *model.LadderPlan) string {
	return fmt.Sprintf("Zone width = %s • ATR = %s • k = %.2f • Ladders = %d • Base step = %s • MACD step = %s",
		price(plan.ZoneWidth), price(plan.ATR), plan.WidthToATRRatio, plan.RungCount,
		price(plan.BaseStep), price(plan.AdjustedStep))
}

// FormatError turns a computation or parse failure into a user-facing message.
func FormatError(err error) string {
	var iie *ladder.InvalidInputError
	if errors.As(err, &iie) {
		var b strings.Builder
		b.WriteString("❌ <b>Invalid input</b>\n")
		for _, v := range iie.Violations {
			b.WriteString(fmt.Sprintf("• <b>%s</b> %s\n", html.EscapeString(v.Field), html.EscapeString(v.Reason)))
		}
		return b.String()
	}
	return fmt.Sprintf("❌ %s\n\n%s", html.EscapeString(err.Error()), Usage)
}

// Usage documents the /ladder command.
const Usage = `Usage:
/ladder &lt;long|short&gt; &lt;market&gt; &lt;upper&gt; &lt;lower&gt; &lt;atr&gt; [adx=N] [macd=neutral|bullish|bearish] [rsi=none|20|50] [sl=N] [tp=N]

Example:
/ladder long 100 102 96 4 macd=bullish sl=1.5`

// FormatHelp lists the available commands.
func FormatHelp() string {
	return "Available commands:\n• /ladder – compute a ladder\n• /reminder – show the configured ladder now\n• /help – this message\n\n" +
		Usage + "\n\nStop-loss buffer presets: sl=" + SLBufferChoices()
}

// SLBufferChoices lists the stop-loss buffer presets, e.g. "0.8, 1.0, 1.5".
func SLBufferChoices() string {
	parts := make([]string, len(ladder.SLBufferPresets))
	for i, v := range ladder.SLBufferPresets {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(parts, ", ")
}

func price(v float64) string {
	return fmt.Sprintf("%.*f", priceDecimals, v)
}
