// Package rules applies the deterministic hard rules that override the
// statistical score: name blacklisting and phone-length checks.
package rules

import (
	"strings"

	"github.com/sells-group/lead-audit-cli/internal/model"
)

// DefaultBlacklist holds the name substrings that force a junk label.
var DefaultBlacklist = []string{"BOT", "TEST", "FAKE"}

// DefaultMinPhoneDigits is the minimum digit count for a phone to pass the
// length rule.
const DefaultMinPhoneDigits = 10

// Engine evaluates the hard rules for one batch. It has no randomness and no
// per-batch state, so it can be exercised with synthetic outlier flags.
type Engine struct {
	blacklist      []string // lowercased tokens
	minPhoneDigits int
}

// NewEngine creates an Engine. A nil blacklist falls back to
// DefaultBlacklist; a non-positive digit minimum to DefaultMinPhoneDigits.
func NewEngine(blacklist []string, minPhoneDigits int) *Engine {
	if blacklist == nil {
		blacklist = DefaultBlacklist
	}
	if minPhoneDigits <= 0 {
		minPhoneDigits = DefaultMinPhoneDigits
	}

	lowered := make([]string, 0, len(blacklist))
	for _, token := range blacklist {
		if token = strings.TrimSpace(token); token != "" {
			lowered = append(lowered, strings.ToLower(token))
		}
	}

	return &Engine{blacklist: lowered, minPhoneDigits: minPhoneDigits}
}

// Blacklisted reports whether the name contains any blacklist token.
// Matching is case-insensitive and substring-based, so "alachua_bot" and
// "Robert Testament" both match. Empty names never match.
func (e *Engine) Blacklisted(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, token := range e.blacklist {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// ShortPhone reports whether the stripped phone has too few digits.
func (e *Engine) ShortPhone(phoneLen int) bool {
	return phoneLen < e.minPhoneDigits
}

// Classify combines the hard rules with the statistical flag. The override
// is monotonic: rules can push a record from Good to Junk, never back.
func (e *Engine) Classify(lead model.Lead, feat model.Features, outlier bool) model.Classification {
	c := model.Classification{
		Outlier:     outlier,
		Blacklisted: e.Blacklisted(lead.Name),
		ShortPhone:  e.ShortPhone(feat.PhoneLen),
	}
	if c.Outlier || c.Blacklisted || c.ShortPhone {
		c.Label = model.LabelJunk
	} else {
		c.Label = model.LabelGood
	}
	return c
}
