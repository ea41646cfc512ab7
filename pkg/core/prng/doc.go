// Package prng derives deterministic seeds from token identifiers and expands
// them into a reproducible stream of uniform values.
//
// # Seeds
//
// [Seed] folds "name:symbol" into a non-negative 32-bit integer using the
// classic 31-multiplier rolling hash over UTF-16 code units. The result is
// stable across platforms and changes whenever any character of either input
// changes. It is not a cryptographic hash.
//
// # Streams
//
// [Advance] is the mulberry32 recurrence expressed on uint32 so that every
// intermediate product wraps at 32 bits. [Stream] wraps the state for callers
// that consume values one at a time:
//
//	s := prng.NewStream(prng.Seed("Nova", "NOVA"))
//	hue := math.Floor(s.Float64() * 360)
//
// Downstream packages depend on the order in which values are drawn, not only
// on how many are drawn. Reordering draws changes every generated logo.
package prng
