package resolver

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Common resolver errors.
var (
	ErrInvalidSymbol = errors.New("symbol cannot be empty")
	ErrNotResolved   = errors.New("walker has no resolution record bound")
)

// symbolPlaceholder is the token replaced by the ticker symbol in the
// deterministic fallback URL template.
const symbolPlaceholder = "{symbol}"

// NormalizeKey converts a raw ticker symbol into its canonical cache key
// form: trimmed and uppercased. Returns ErrInvalidSymbol if nothing remains
// after trimming.
func NormalizeKey(symbol string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if key == "" {
		return "", ErrInvalidSymbol
	}
	return key, nil
}

// Record is the resolution result for one symbol. A Record is an immutable
// value: the cache replaces entries wholesale and never mutates one in
// place, so readers can hold a Record without synchronization.
type Record struct {
	// Symbol is the normalized ticker the record was resolved for.
	Symbol string `json:"symbol"`

	// Primary is the best-known logo URL, or empty when the metadata
	// endpoint reported none (or the lookup was degraded).
	Primary string `json:"primary,omitempty"`

	// Fallbacks is the ordered list of alternate candidate URLs. It is
	// never empty: the deterministic symbol-derived URL is always last.
	Fallbacks []string `json:"fallbacks"`

	// RecordedAt is when the record was written; the cache derives
	// expiry from it.
	RecordedAt time.Time `json:"recorded_at"`

	// Degraded marks a record written after a failed lookup. Degraded
	// records carry the short TTL class so transient provider outages
	// self-heal quickly.
	Degraded bool `json:"degraded"`
}

// Candidates returns the full candidate chain in attempt order: the primary
// URL when present, then every fallback. The result is never empty for a
// well-formed Record.
func (r Record) Candidates() []string {
	chain := make([]string, 0, len(r.Fallbacks)+1)
	if r.Primary != "" {
		chain = append(chain, r.Primary)
	}
	return append(chain, r.Fallbacks...)
}

// FallbackURL builds the deterministic provider-independent logo URL for a
// symbol from the configured template. It is a pure function and cannot
// fail; templates without the {symbol} token simply come back unchanged.
func FallbackURL(template, symbol string) string {
	return strings.ReplaceAll(template, symbolPlaceholder, symbol)
}

// Initials derives the placeholder text rendered in the exhausted state:
// the first two letters of the symbol. Non-letter leading characters
// (exchange prefixes, share-class dots) are skipped.
func Initials(symbol string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(symbol) {
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
