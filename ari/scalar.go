package ari

import "time"

// The scalar Primitive kinds, one type per spec.md §3.1 primitive. Each
// is a distinct Go type (rather than a single struct with a discriminant
// field plus unused fields) so the compiler enforces that a Bool is never
// mistaken for a Text at construction time — the same one-type-per-kind
// shape ytypes uses for its per-kind validators, applied here to values
// instead of validation functions.

type Bool bool

func (Bool) isPrimitive() {}

type Uint uint64

func (Uint) isPrimitive() {}

type Int int64

func (Int) isPrimitive() {}

type Uvast uint64

func (Uvast) isPrimitive() {}

type Vast int64

func (Vast) isPrimitive() {}

type Real32 float32

func (Real32) isPrimitive() {}

type Real64 float64

func (Real64) isPrimitive() {}

type Text string

func (Text) isPrimitive() {}

type Bytes []byte

func (Bytes) isPrimitive() {}

// TP is a timepoint: an offset from the catalog's configured epoch,
// measured in the catalog's configured scale (spec.md §9 — never hardcode
// POSIX epoch). Seconds and Nanos follow time.Time's split so conversion
// to/from a concrete epoch is exact.
type TP struct {
	Seconds int64
	Nanos   int32
}

func (TP) isPrimitive() {}

// TD is a timeperiod: a signed duration, split the same way as TP.
type TD struct {
	Seconds int64
	Nanos   int32
}

func (TD) isPrimitive() {}

// TPFromTime builds a TP from a time.Time relative to a given epoch.
func TPFromTime(t, epoch time.Time) TP {
	d := t.Sub(epoch)
	return TP{Seconds: int64(d / time.Second), Nanos: int32(d % time.Second)}
}

// ToTime converts a TP back to a time.Time given the catalog's configured
// epoch.
func (t TP) ToTime(epoch time.Time) time.Time {
	return epoch.Add(time.Duration(t.Seconds)*time.Second + time.Duration(t.Nanos))
}

// TDFromDuration builds a TD from a time.Duration.
func TDFromDuration(d time.Duration) TD {
	return TD{Seconds: int64(d / time.Second), Nanos: int32(d % time.Second)}
}

// ToDuration converts a TD back to a time.Duration.
func (t TD) ToDuration() time.Duration {
	return time.Duration(t.Seconds)*time.Second + time.Duration(t.Nanos)
}
