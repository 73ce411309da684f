package resolver

// Walker is the per-display-instance fallback state machine. One Walker is
// created for each rendered instance of a symbol; instances are never
// shared, even for the same symbol, because a load failure in one rendering
// context must not advance another.
//
// The lifecycle is: pending (no record bound) → showing the primary or
// first fallback → advancing one candidate per reported failure →
// exhausted. Advancement is strictly monotonic; no transition ever returns
// to an earlier candidate.
//
// A Walker belongs to a single rendering context and is not safe for
// concurrent use.
type Walker struct {
	record     Record
	candidates []string
	index      int
	bound      bool
}

// NewWalker creates a Walker in the pending state.
func NewWalker() *Walker {
	return &Walker{}
}

// Bind attaches a resolution record, leaving the pending state. The walker
// starts at the primary candidate when the record has one, otherwise at the
// first fallback. A second Bind is ignored: a record refresh never rewinds
// a live display instance.
func (w *Walker) Bind(rec Record) {
	if w.bound {
		return
	}
	w.record = rec
	w.candidates = rec.Candidates()
	w.bound = true
}

// Current returns the URL the consumer should attempt now. ok is false
// while pending and once exhausted; in the exhausted case the consumer
// renders Placeholder instead.
func (w *Walker) Current() (string, bool) {
	if !w.bound || w.index >= len(w.candidates) {
		return "", false
	}
	return w.candidates[w.index], true
}

// ReportFailure signals that failedURL could not be displayed, advancing to
// the next candidate. Reporting a URL that is not the current candidate is
// a no-op: a stale failure callback arriving after the state already
// advanced must not skip candidates. Returns ErrNotResolved if no record
// was ever bound, which is a programming error in the caller.
func (w *Walker) ReportFailure(failedURL string) error {
	if !w.bound {
		return ErrNotResolved
	}
	current, ok := w.Current()
	if !ok || failedURL != current {
		return nil
	}
	w.index++
	return nil
}

// Exhausted reports whether every candidate has failed.
func (w *Walker) Exhausted() bool {
	return w.bound && w.index >= len(w.candidates)
}

// Placeholder returns the initials text rendered in the exhausted state.
// It requires no network data and cannot fail.
func (w *Walker) Placeholder() string {
	return Initials(w.record.Symbol)
}
