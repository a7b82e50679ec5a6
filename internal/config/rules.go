package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk shape of a rules override file. All fields are
// optional; absent fields keep their configured values.
type rulesFile struct {
	Blacklist      []string `yaml:"blacklist"`
	MinPhoneDigits *int     `yaml:"min_phone_digits"`
	Contamination  *float64 `yaml:"contamination"`
	Seed           *int64   `yaml:"seed"`
	Trees          *int     `yaml:"trees"`
}

// ApplyRulesFile overlays audit parameters from a YAML rules file onto cfg.
func ApplyRulesFile(path string, cfg *AuditConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "config: read rules file %s", path)
	}

	// The YAML has a top-level "rules" key
	var wrapper struct {
		Rules rulesFile `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return eris.Wrap(err, "config: parse rules file")
	}

	r := wrapper.Rules
	if len(r.Blacklist) > 0 {
		cfg.Blacklist = r.Blacklist
	}
	if r.MinPhoneDigits != nil {
		cfg.MinPhoneDigits = *r.MinPhoneDigits
	}
	if r.Contamination != nil {
		cfg.Contamination = *r.Contamination
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	if r.Trees != nil {
		cfg.Trees = *r.Trees
	}

	return Validate(*cfg)
}
