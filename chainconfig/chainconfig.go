// Package chainconfig collects the tunable constants the rest of the
// engine treats as sensible defaults: mining reward, difficulty, VM safety
// bounds, and the selection strategies' annealing parameters.
package chainconfig

import "fmt"

// Config bundles every knob a chain.Chain or selection run needs. Zero
// values are not meaningful — build one with Default and override fields.
type Config struct {
	MiningReward    uint64
	Difficulty      uint32
	MaxMineAttempts int

	LocktimeThreshold int64
	MaxScriptOps      int
	MaxStackDepth     int

	MempoolBudgetBytes uint64

	AnnealingIterations int
	AnnealingCoolingRate float64
	AnnealingStartTemp   float64
	AnnealingSeed        int64
}

// Default returns the spec's stated defaults (§6, §9, §4.I).
func Default() Config {
	return Config{
		MiningReward:    50 * 100_000_000,
		Difficulty:      2,
		MaxMineAttempts: 50_000_000,

		LocktimeThreshold: 500_000_000,
		MaxScriptOps:      201,
		MaxStackDepth:     1000,

		MempoolBudgetBytes: 1_000_000,

		AnnealingIterations: 5000,
		AnnealingCoolingRate: 0.995,
		AnnealingStartTemp:   1000,
		AnnealingSeed:        1,
	}
}

// Validate reports whether c's fields form a usable configuration.
func (c Config) Validate() error {
	if c.Difficulty > 64 {
		return fmt.Errorf("chainconfig: difficulty %d exceeds a 64-hex-char hash", c.Difficulty)
	}
	if c.MaxMineAttempts <= 0 {
		return fmt.Errorf("chainconfig: MaxMineAttempts must be positive")
	}
	if c.AnnealingCoolingRate <= 0 || c.AnnealingCoolingRate >= 1 {
		return fmt.Errorf("chainconfig: AnnealingCoolingRate must be in (0,1), got %f", c.AnnealingCoolingRate)
	}
	if c.AnnealingIterations < 0 {
		return fmt.Errorf("chainconfig: AnnealingIterations must be non-negative")
	}
	if c.AnnealingStartTemp <= 0 {
		return fmt.Errorf("chainconfig: AnnealingStartTemp must be positive")
	}
	if c.LocktimeThreshold < 0 {
		return fmt.Errorf("chainconfig: LocktimeThreshold must be non-negative")
	}
	if c.MaxScriptOps <= 0 {
		return fmt.Errorf("chainconfig: MaxScriptOps must be positive")
	}
	if c.MaxStackDepth <= 0 {
		return fmt.Errorf("chainconfig: MaxStackDepth must be positive")
	}
	if c.MempoolBudgetBytes == 0 {
		return fmt.Errorf("chainconfig: MempoolBudgetBytes must be positive")
	}
	return nil
}
