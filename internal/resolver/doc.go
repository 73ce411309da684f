// Package resolver implements the ticker-to-logo resolution engine.
//
// Resolution for a symbol walks an unreliable provider chain: the internal
// metadata endpoint first, then any alternate provider URLs it reports, and
// finally a deterministic URL built from the symbol alone so resolution can
// never dead-end on network data. Results are cached in memory with two TTL
// classes (long for healthy lookups, short for degraded ones) and concurrent
// lookups for the same symbol are coalesced into a single network call.
//
// The Walker type is the per-display-instance fallback state machine: it
// advances monotonically through the candidate list as load failures are
// reported and terminates in an exhausted state that maps to a locally
// generated initials placeholder.
package resolver
