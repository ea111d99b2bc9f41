// Package ari implements the Application Resource Identifier value model:
// a single tagged universe of variants (undefined, null, typed literal,
// object reference) used throughout the DTNMA Management Architecture.
//
// An ARI is a closed sum type. ari.ARI is implemented by exactly the types
// declared in this package; there is no shared mutable base and no
// exported way to add a fifth variant from outside the package.
package ari

// ARI is the tagged union of every value an Application Resource
// Identifier can carry. The unexported marker method closes the set of
// implementations to this package.
type ARI interface {
	isARI()
}

// Undefined is the explicit "no value" sentinel. It is distinct from Null
// and, per invariant 6, never appears as a map key, a typed slot's element,
// or a parameter value — only as a top-level "absent" marker.
type Undefined struct{}

func (Undefined) isARI() {}

// Null is the literal null value.
type Null struct{}

func (Null) isARI() {}

var (
	_ ARI = Undefined{}
	_ ARI = Null{}
	_ ARI = (*Literal)(nil)
	_ ARI = (*ObjectRef)(nil)
)
