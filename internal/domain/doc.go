// Package domain models blast-effect assessments for a single detonation.
//
// # Scaling Laws
//
// Effect radii follow a closed-form power law of the yield:
//
//	radius = meters * root(yieldKt / referenceKt)
//
// where root is a cube root (blast-physics scaling) or a square root (an
// alternative table kept for comparison), and each effect kind carries its
// own (meters, referenceKt) pair. At the reference yield the radius equals
// the bare coefficient.
//
// Built-in tables:
//
//	cube-root        67 / 173 / 363 / 399 / 930 m at 1 kt (default)
//	cube-root-tonne  5.58 / 21.8 / 45.8 / 50.3 / 118 m at 0.001 kt
//	square-root      18.5 / 42 / 88 / 97 / 228 m at 0.02 kt
//
// Values are listed in effect order: fireball, heavy blast (20 psi),
// moderate blast (5 psi), thermal radiation (3rd-degree burns), light blast
// (1 psi). A law is rejected at load time unless its radii stay in that
// order at every yield.
//
// # Yield
//
// Yields are kilotons of TNT equivalent and must be positive and finite.
// Zero, negative, NaN, infinite, and unparsable values fail with
// [ErrInvalidYield]; no radii are ever computed from them.
//
// # Severity Narratives
//
// Narratives are banded by absolute radius so one table serves every law:
//
//	<= 10 m   minimal       minor
//	<= 30 m   limited       minor
//	<= 50 m   localized     moderate
//	<= 100 m  block         moderate
//	<= 200 m  neighborhood  severe
//	>  200 m  district      extreme
//
// # Areas
//
// Areas are π·r² converted to square kilometers and rounded to two decimals
// for display. See [ComputeArea].
//
// # Report IDs
//
// Report IDs are deterministic SHA-256 hashes of law|yield|lat|lon|place, so
// replaying a detonation request produces the same ID. See [generateID].
package domain
