package password

import (
	"os"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv := []string{
		"ROSTER_PASSWORD_COST",
		"ROSTER_PASSWORD_MIN_LEN",
		"ROSTER_PASSWORD_MAX_LEN",
	}
	for _, k := range clearEnv {
		_ = os.Unsetenv(k)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Cost != def.Cost {
		t.Fatalf("cost mismatch")
	}
	if cfg.Policy.MinLength != def.Policy.MinLength {
		t.Fatalf("min length mismatch")
	}
}

func TestFromEnv_Override(t *testing.T) {
	t.Setenv("ROSTER_PASSWORD_COST", "12")
	t.Setenv("ROSTER_PASSWORD_MIN_LEN", "10")
	t.Setenv("ROSTER_PASSWORD_MAX_LEN", "64")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}

	if cfg.Cost != 12 {
		t.Fatalf("cost override failed: %+v", cfg)
	}
	if cfg.Policy.MinLength != 10 || cfg.Policy.MaxLength != 64 {
		t.Fatalf("policy override failed: %+v", cfg.Policy)
	}
}

func TestFromEnv_InvalidMinMax(t *testing.T) {
	t.Setenv("ROSTER_PASSWORD_MIN_LEN", "20")
	t.Setenv("ROSTER_PASSWORD_MAX_LEN", "10")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFromEnv_CostOutOfRange(t *testing.T) {
	t.Setenv("ROSTER_PASSWORD_COST", "99")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error")
	}
}
