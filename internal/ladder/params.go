package ladder

import "fmt"

// Defaults used by every calculator variant.
const (
	DefaultBaseStepMult   = 0.5
	DefaultNudgeMult      = 0.25
	DefaultWideZoneK      = 1.2
	DefaultStrongTrendADX = 25.0
	DefaultRREpsilon      = 1e-12

	DefaultTPMult       = 2.0
	DefaultSLBufferMult = 1.0
)

// SLBufferPresets are the stop-loss buffer choices offered to the trader.
var SLBufferPresets = []float64{0.8, 1.0, 1.5}

// Params holds the tuning constants of the engine. They are passed explicitly
// so Compute stays a pure function of its arguments.
type Params struct {
	BaseStepMult   float64 `yaml:"base_step_mult"`
	NudgeMult      float64 `yaml:"nudge_mult"`
	WideZoneK      float64 `yaml:"wide_zone_k"`
	StrongTrendADX float64 `yaml:"strong_trend_adx"`
	RREpsilon      float64 `yaml:"rr_epsilon"`
}

// DefaultParams returns the stock engine tuning.
func DefaultParams() Params {
	return Params{
		BaseStepMult:   DefaultBaseStepMult,
		NudgeMult:      DefaultNudgeMult,
		WideZoneK:      DefaultWideZoneK,
		StrongTrendADX: DefaultStrongTrendADX,
		RREpsilon:      DefaultRREpsilon,
	}
}

// Validate checks that the tuning is usable.
func (p Params) Validate() error {
	if p.BaseStepMult < 0 {
		return fmt.Errorf("base_step_mult must be non-negative")
	}
	if p.NudgeMult < 0 {
		return fmt.Errorf("nudge_mult must be non-negative")
	}
	if p.WideZoneK <= 0 {
		return fmt.Errorf("wide_zone_k must be positive")
	}
	if p.StrongTrendADX <= 0 {
		return fmt.Errorf("strong_trend_adx must be positive")
	}
	if p.RREpsilon <= 0 {
		return fmt.Errorf("rr_epsilon must be positive")
	}
	return nil
}
