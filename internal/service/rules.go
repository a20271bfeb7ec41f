package service

import (
	"strings"

	"github.com/rotorops/fleetboard/internal/models"
)

// DefaultRules is the tracked-inspection catalog used when no rules file is
// configured. Labels are what the dashboard displays; match targets are the
// ATA and Code values the maintenance system exports.
func DefaultRules() []models.Rule {
	return []models.Rule{
		{Label: "12 Month", Match: "05 12MO- INSPECTION", Mode: models.RuleModeExact},
		{Label: "24 Month", Match: "05 24MO. INSPECTION", Mode: models.RuleModeExact},
		{Label: "300HR/12M Airframe", Match: "05 300HR- PERIODIC INSPECTION", Mode: models.RuleModeExact},
		{Label: "300HR/12M Engine", Match: "72 72/300", Mode: models.RuleModeExact},
		{Label: "600HR/12M Engine", Match: "72 INSP 600HR/12MO", Mode: models.RuleModeExact},
		{Label: "TRGB Interim", Match: "65 10-11 INTERIM", Mode: models.RuleModeExact},
	}
}

// MatchRule reports whether an ATA code field satisfies one rule. Exact
// mode accepts the whole trimmed field or any whitespace-separated token of
// it, case-insensitively. Contains mode is a case-insensitive substring
// test.
func MatchRule(ata string, rule models.Rule) bool {
	ata = strings.TrimSpace(ata)
	target := strings.TrimSpace(rule.Match)
	if ata == "" || target == "" {
		return false
	}
	if rule.Mode == models.RuleModeExact {
		if strings.EqualFold(ata, target) {
			return true
		}
		for _, tok := range strings.Fields(ata) {
			if strings.EqualFold(tok, target) {
				return true
			}
		}
		return false
	}
	return strings.Contains(strings.ToUpper(ata), strings.ToUpper(target))
}

// TagInspection scans the table in order; the first matching rule supplies
// the display label.
func TagInspection(ata string, rules []models.Rule) (string, bool) {
	for _, r := range rules {
		if MatchRule(ata, r) {
			return r.Label, true
		}
	}
	return "", false
}
