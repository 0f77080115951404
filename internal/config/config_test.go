package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Insight.RiskWeekMin != 4 || cfg.Insight.RiskWeekMax != 4 {
		t.Fatalf("default risk window: %d-%d", cfg.Insight.RiskWeekMin, cfg.Insight.RiskWeekMax)
	}
	if cfg.Insight.RecentWindowDays != 7 {
		t.Fatalf("default recent window: %d", cfg.Insight.RecentWindowDays)
	}
	if cfg.Data.SourceFile != "dados.xlsx" || cfg.Data.FormattedFile != "Arquivo_Formatado.xlsx" {
		t.Fatalf("default files: %+v", cfg.Data)
	}
}

func TestNormalize_RepairsInvalidWindow(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Insight.RiskWeekMin = 5
	cfg.Insight.RiskWeekMax = 3
	cfg.Insight.RecentWindowDays = 0
	cfg.Normalize()

	if cfg.Insight.RiskWeekMin != 4 || cfg.Insight.RiskWeekMax != 4 {
		t.Fatalf("inverted window not repaired: %d-%d", cfg.Insight.RiskWeekMin, cfg.Insight.RiskWeekMax)
	}
	if cfg.Insight.RecentWindowDays != 7 {
		t.Fatalf("recent window not repaired: %d", cfg.Insight.RecentWindowDays)
	}
}

func TestNormalize_KeepsValidRange(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Insight.RiskWeekMin = 3
	cfg.Insight.RiskWeekMax = 4
	cfg.Normalize()

	if cfg.Insight.RiskWeekMin != 3 || cfg.Insight.RiskWeekMax != 4 {
		t.Fatalf("valid 3-4 window altered: %d-%d", cfg.Insight.RiskWeekMin, cfg.Insight.RiskWeekMax)
	}
}
