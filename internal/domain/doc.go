// Package domain models seismic event records and their normalization.
//
// # Data Source
//
// Event records originate from an earthquake catalog export published as a
// JSON collection. The upstream cleaning job merges several producer feeds,
// so field types are not uniform: numeric columns may arrive as JSON numbers
// or strings, optional columns may be null or missing entirely, and one
// producer variant abbreviates the significance column to "sig".
//
// # Field Conventions
//
// Timestamps:
//
//	Either "2006-01-02 15:04:05", RFC 3339, or the legacy "02-01-2006 15:04"
//	export format. Unparseable timestamps are recorded as absent (zero time),
//	never kept as strings.
//
// Numeric measurements (magnitude, depth, significance):
//
//	Coerced to finite float64. Missing, null, or unparseable values become 0
//	so downstream arithmetic never sees NaN. Zero therefore means
//	"unmeasured", matching the catalog convention.
//
// Tsunami flag:
//
//	Tri-state: 1 (tsunami observed), 0 (none), or absent when the producer
//	reported null. Absent is preserved, not coerced to 0, because several
//	feeds omit the flag for inland events.
//
// Coordinates:
//
//	Finite float64 or absent. Never defaulted to 0, because (0, 0) is a
//	valid ocean coordinate.
//
// Magnitude categories:
//
//	Catalog labels on the USGS-style scale (Micro through Mega). When the
//	source omits the label it is derived from magnitude using the cleaning
//	job's bin edges, so both producer variants normalize to the same shape.
//
// # Normalization Contract
//
// A record that fails to decode is dropped in its entirety; partial records
// never enter the canonical collection. Normalization preserves input order
// minus dropped records, and its output length is never greater than its
// input length.
package domain
