package admcatalog

// NotFoundError reports that a catalog lookup matched no module/object
// (spec.md §4.1, §7).
type NotFoundError struct {
	Detail string
}

func (e NotFoundError) Error() string { return "not found: " + e.Detail }

// AmbiguousReferenceError reports that a bare (organization-omitted) name
// resolves to objects published by more than one organization (spec.md
// §4.1, §7).
type AmbiguousReferenceError struct {
	Detail string
}

func (e AmbiguousReferenceError) Error() string { return "ambiguous reference: " + e.Detail }
