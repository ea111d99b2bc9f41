package textcodec

import "time"

// Options controls Format's output. Parse takes no Options;
// ParseWithEpoch takes its epoch as a separate argument. It follows the teacher's
// options-struct idiom for a single Marshal-shaped entry point
// (ygot/render.go's RFC7951JSONConfig).
type Options struct {
	// NumericNames forces object and ADM identifiers to be emitted as
	// their numeric enum rather than their symbolic name.
	NumericNames bool

	// TextIdentity, if true, emits the "ari:" prefix before the top-level
	// value; if false, the prefix is omitted. ARIs nested inside a
	// structured literal or a parameter list never carry the prefix.
	TextIdentity bool

	// TimeFormat selects how tp/td values are rendered: "iso8601"
	// (default) or "numeric".
	TimeFormat string

	// FloatFormat selects how real32/real64 values are rendered:
	// "shortest" (default, round-trip-exact) or "decimal".
	FloatFormat string

	// Epoch is the reference instant tp values are relative to. The
	// wire protocol makes this catalog-defined (spec.md §9); this codec
	// package has no catalog dependency, so callers needing a
	// non-default epoch must set it explicitly. Default is the POSIX
	// epoch.
	Epoch time.Time
}

const (
	TimeFormatISO8601 = "iso8601"
	TimeFormatNumeric = "numeric"

	FloatFormatShortest = "shortest"
	FloatFormatDecimal  = "decimal"
)

// DefaultOptions returns the option set spec.md §4.5 describes as the
// default: symbolic names, ISO-8601 times, shortest round-trip floats,
// and the "ari:" prefix always emitted.
func DefaultOptions() Options {
	return Options{
		TextIdentity: true,
		TimeFormat:   TimeFormatISO8601,
		FloatFormat:  FloatFormatShortest,
		Epoch:        time.Unix(0, 0).UTC(),
	}
}
