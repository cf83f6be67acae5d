package guard

import (
	"regexp"
	"strings"
)

const RedactionMarker = "[REDACTED]"

// Redactor replaces every configured forbidden substring, case-insensitively,
// with the redaction marker.
type Redactor struct {
	patterns []*regexp.Regexp
}

func NewRedactor(terms []string) *Redactor {
	r := &Redactor{}
	for _, raw := range terms {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}
		r.patterns = append(r.patterns, regexp.MustCompile("(?i)"+regexp.QuoteMeta(term)))
	}
	return r
}

func (r *Redactor) RedactString(s string) (string, bool) {
	if r == nil || len(r.patterns) == 0 {
		return s, false
	}
	changed := false
	for _, p := range r.patterns {
		if p.MatchString(s) {
			s = p.ReplaceAllString(s, RedactionMarker)
			changed = true
		}
	}
	return s, changed
}
