package stats

import (
	"fmt"
	"strings"
)

// Policy holds the configurable constants of the inference engine. The
// significance level is fixed at verdict.Alpha and is not part of it.
type Policy struct {
	OutcomeColumn     string   `toml:"outcome_column"`
	OutcomeCandidates []string `toml:"outcome_candidates"`
	PositiveTokens    []string `toml:"positive_tokens"`
	MaxCategories     int      `toml:"max_categories"`
	YatesCorrection   bool     `toml:"yates_correction"`
	PositiveLabel     string   `toml:"positive_label"`
	NegativeLabel     string   `toml:"negative_label"`
}

// DefaultPolicy returns the policy used when nothing is configured
func DefaultPolicy() Policy {
	return Policy{
		OutcomeCandidates: []string{"y", "deposit", "subscribed", "target", "response"},
		PositiveTokens:    []string{"yes", "sim", "1", "true", "t", "y"},
		MaxCategories:     8,
		PositiveLabel:     "subscribed",
		NegativeLabel:     "not subscribed",
	}
}

// Validate checks the policy for values the engine cannot run with
func (p Policy) Validate() error {
	if p.MaxCategories < 2 {
		return fmt.Errorf("max categories must be at least 2, got %d", p.MaxCategories)
	}
	if len(p.PositiveTokens) == 0 {
		return fmt.Errorf("at least one positive token is required")
	}
	for _, tok := range p.PositiveTokens {
		if strings.TrimSpace(tok) == "" {
			return fmt.Errorf("positive tokens cannot be blank")
		}
	}
	if strings.TrimSpace(p.PositiveLabel) == "" || strings.TrimSpace(p.NegativeLabel) == "" {
		return fmt.Errorf("group labels cannot be empty")
	}
	if p.PositiveLabel == p.NegativeLabel {
		return fmt.Errorf("group labels must differ, both are %q", p.PositiveLabel)
	}
	return nil
}

// PositiveSet returns the positive tokens lower-cased and trimmed
func (p Policy) PositiveSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.PositiveTokens))
	for _, tok := range p.PositiveTokens {
		set[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}
	return set
}
