// Package features derives the numeric features used for anomaly scoring
// from raw lead contact fields.
package features

import (
	"strings"
	"unicode/utf8"

	"github.com/sells-group/lead-audit-cli/internal/model"
)

// noDomainToken is the encoder token for emails with no parseable domain.
const noDomainToken = "none"

// Extract derives features for every record in the table. Malformed records
// are never rejected: empty phones yield zero-length digit strings, empty
// names a zero name length, and unparseable emails the shared "none" domain
// token. The domain encoder is built fresh for this table; codes are only
// meaningful within one batch.
func Extract(t *model.Table) []model.Features {
	enc := newDomainEncoder()

	feats := make([]model.Features, t.Len())
	for i := range feats {
		lead := t.Lead(i)
		digits := PhoneDigits(lead.Phone)
		feats[i] = model.Features{
			PhoneDigits: digits,
			NameLen:     utf8.RuneCountInString(lead.Name),
			PhoneLen:    len(digits),
			DomainID:    enc.encode(EmailDomain(lead.Email)),
		}
	}
	return feats
}

// Matrix lays out the numeric features row-major for the anomaly detector:
// name length, phone length, domain code.
func Matrix(feats []model.Features) [][]float64 {
	m := make([][]float64, len(feats))
	for i, f := range feats {
		m[i] = []float64{float64(f.NameLen), float64(f.PhoneLen), float64(f.DomainID)}
	}
	return m
}

// PhoneDigits strips every non-digit character from a raw phone string.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EmailDomain returns the substring after the last '@', or the "none" token
// when the email is empty or carries no '@'.
func EmailDomain(email string) string {
	idx := strings.LastIndexByte(email, '@')
	if idx < 0 || idx == len(email)-1 {
		return noDomainToken
	}
	return email[idx+1:]
}

// domainEncoder assigns sequential integer codes to domains in first-seen
// order. It lives for exactly one batch; codes are not stable across runs
// with different domain sets.
type domainEncoder struct {
	codes map[string]int
}

func newDomainEncoder() *domainEncoder {
	return &domainEncoder{codes: make(map[string]int)}
}

func (e *domainEncoder) encode(domain string) int {
	if code, ok := e.codes[domain]; ok {
		return code
	}
	code := len(e.codes)
	e.codes[domain] = code
	return code
}
