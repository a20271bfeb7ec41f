package service

import (
	"testing"

	"github.com/rotorops/fleetboard/internal/models"
)

func TestMatchRuleExactWholeField(t *testing.T) {
	rule := models.Rule{Label: "12 Month", Match: "05 12MO- INSPECTION", Mode: models.RuleModeExact}
	if !MatchRule("05 12MO- INSPECTION", rule) {
		t.Fatalf("expected whole-field match")
	}
	if !MatchRule("  05 12mo- inspection  ", rule) {
		t.Fatalf("expected case-insensitive trimmed match")
	}
	if MatchRule("05 12MO- INSPECTION EXTRA", rule) {
		t.Fatalf("exact mode must not match a longer field")
	}
	if MatchRule("", rule) {
		t.Fatalf("empty field must not match")
	}
}

func TestMatchRuleExactToken(t *testing.T) {
	rule := models.Rule{Label: "300HR/12M Engine", Match: "72/300", Mode: models.RuleModeExact}
	if !MatchRule("72 72/300", rule) {
		t.Fatalf("expected token match inside code field")
	}
	if MatchRule("72 672/300X", rule) {
		t.Fatalf("token match must be exact, not substring")
	}
}

func TestMatchRuleContains(t *testing.T) {
	rule := models.Rule{Label: "TRGB", Match: "interim", Mode: models.RuleModeContains}
	if !MatchRule("65 10-11 INTERIM", rule) {
		t.Fatalf("expected case-insensitive substring match")
	}
	if MatchRule("65 10-11 FINAL", rule) {
		t.Fatalf("unexpected match")
	}
}

func TestTagInspectionFirstRuleWins(t *testing.T) {
	rules := []models.Rule{
		{Label: "Broad", Match: "INSPECTION", Mode: models.RuleModeContains},
		{Label: "Narrow", Match: "05 12MO- INSPECTION", Mode: models.RuleModeExact},
	}
	label, ok := TagInspection("05 12MO- INSPECTION", rules)
	if !ok || label != "Broad" {
		t.Fatalf("expected first matching rule to win, got %q ok=%v", label, ok)
	}
}

func TestTagInspectionNoMatch(t *testing.T) {
	if label, ok := TagInspection("35 OXYGEN CHECK", DefaultRules()); ok {
		t.Fatalf("expected no match, got %q", label)
	}
}

func TestDefaultRulesCatalog(t *testing.T) {
	rules := DefaultRules()
	if len(rules) != 6 {
		t.Fatalf("expected 6 catalog rules, got %d", len(rules))
	}
	for _, r := range rules {
		if r.Mode != models.RuleModeExact {
			t.Fatalf("catalog rule %q must be exact mode", r.Label)
		}
	}
	label, ok := TagInspection("05 300HR- PERIODIC INSPECTION", rules)
	if !ok || label != "300HR/12M Airframe" {
		t.Fatalf("expected catalog hit for periodic inspection, got %q ok=%v", label, ok)
	}
}
