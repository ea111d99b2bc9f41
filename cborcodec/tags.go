package cborcodec

// CBOR tag numbers used by the binary form (spec.md §4.6, §6.2).
// Tag 1 is the real IANA-registered "epoch-based date/time" tag; the
// timeperiod tag has no IANA registration and is configured per
// deployment (Options.TimeperiodTag), defaulting to a project-local
// value in the unassigned range.
const (
	TagTimepoint         = 1
	DefaultTimeperiodTag = 1003
)
