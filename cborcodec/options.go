package cborcodec

import "github.com/dtnma-project/ace-ari/ari"

// ResolveFunc checks whether an object reference resolves against a
// catalog, without this package importing admcatalog's concrete types
// (callers close over their own *admcatalog.Catalog).
type ResolveFunc func(org, model ari.ID, rev *ari.Revision, objType ari.ObjectType, name string) error

// Options controls Encode/Decode (spec.md §4.6's "Options" table).
type Options struct {
	// StrictResolve requires every decoded object reference to resolve
	// against Resolver; Resolver must be set for this to have any
	// effect.
	StrictResolve bool
	Resolver      ResolveFunc

	// AllowUnknownTags passes unrecognized tagged items through as
	// opaque byte literals instead of failing with DecodeError.
	AllowUnknownTags bool

	// PreferNumericNames encodes identifiers as integers when possible
	// (requires the ARI's IDs to already carry a numeric form; this
	// package does not consult a catalog to assign one).
	PreferNumericNames bool

	// SortMapKeys reorders an am's pairs by their encoded key bytes
	// before writing, rather than preserving insertion order (spec.md
	// §9's second Open Question: "some deployments may expect
	// sorted-by-key canonicalization").
	SortMapKeys bool

	// TimeperiodTag is the CBOR tag number used for td values. Zero
	// means DefaultTimeperiodTag.
	TimeperiodTag uint64

	// RequireTyped rejects a bare, unwrapped scalar CBOR item (one with
	// no [type_code, payload] wrapper) instead of defaulting it to the
	// narrowest kind its major type implies (ace_ari's --must-typed,
	// spec.md §6.3).
	RequireTyped bool
}

func (o Options) timeperiodTag() uint64 {
	if o.TimeperiodTag == 0 {
		return DefaultTimeperiodTag
	}
	return o.TimeperiodTag
}

// DefaultOptions returns the spec's default option set.
func DefaultOptions() Options {
	return Options{TimeperiodTag: DefaultTimeperiodTag}
}
