package chainconfig

import "testing"

func TestValidateDefaultOK(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected the default config to validate, got %v", err)
	}
}

func TestValidateRejectsBadDifficulty(t *testing.T) {
	cfg := Default()
	cfg.Difficulty = 65
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for an out-of-range difficulty")
	}
}

func TestValidateRejectsBadAnnealingCoolingRate(t *testing.T) {
	cfg := Default()
	cfg.AnnealingCoolingRate = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a cooling rate outside (0,1)")
	}
}

func TestValidateRejectsBadScriptBounds(t *testing.T) {
	cfg := Default()
	cfg.MaxScriptOps = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a non-positive MaxScriptOps")
	}

	cfg = Default()
	cfg.MaxStackDepth = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a negative MaxStackDepth")
	}
}

func TestValidateRejectsZeroMempoolBudget(t *testing.T) {
	cfg := Default()
	cfg.MempoolBudgetBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a zero MempoolBudgetBytes")
	}
}

func TestValidateRejectsNegativeLocktimeThreshold(t *testing.T) {
	cfg := Default()
	cfg.LocktimeThreshold = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a negative LocktimeThreshold")
	}
}
