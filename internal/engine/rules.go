package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the tunable severity heuristics. Defaults mirror the production
// constants; a YAML rules file can override any subset.
type Rules struct {
	// MaskScoreGate excludes instance-segmentation detections below this
	// score entirely (precision over recall).
	MaskScoreGate float64 `yaml:"maskScoreGate"`

	// Area-ratio tiers shared by the defect-region and drift-region
	// builders.
	RegionHighAreaRatio   float64 `yaml:"regionHighAreaRatio"`
	RegionMediumAreaRatio float64 `yaml:"regionMediumAreaRatio"`

	// Coverage tiers for the synthetic drift-coverage change. Independent
	// of the region tiers: diffuse drift reads differently from localized
	// drift.
	CoverageHighRatio   float64 `yaml:"coverageHighRatio"`
	CoverageMediumRatio float64 `yaml:"coverageMediumRatio"`

	// Defect labels that force severity regardless of area.
	CriticalDefectTokens  []string `yaml:"criticalDefectTokens"`
	SecondaryDefectTokens []string `yaml:"secondaryDefectTokens"`
}

// DefaultRules returns the production heuristics.
func DefaultRules() Rules {
	return Rules{
		MaskScoreGate:         0.85,
		RegionHighAreaRatio:   0.02,
		RegionMediumAreaRatio: 0.008,
		CoverageHighRatio:     0.03,
		CoverageMediumRatio:   0.01,
		CriticalDefectTokens: []string{
			"missing", "short", "bridge", "crack", "burn", "lifted",
		},
		SecondaryDefectTokens: []string{
			"scratch", "misalign", "discolor", "residue", "dent",
		},
	}
}

// LoadRules overlays a YAML rules file onto the defaults. An empty path
// returns the defaults unchanged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if rules.MaskScoreGate <= 0 || rules.MaskScoreGate > 1 {
		return rules, fmt.Errorf("maskScoreGate must be in (0, 1], got %v", rules.MaskScoreGate)
	}
	return rules, nil
}
