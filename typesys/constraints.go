package typesys

import (
	"fmt"
	"regexp"

	"github.com/dtnma-project/ace-ari/ari"
)

// Constraints restricts a Use type expression's base type: numeric range,
// text/bytes length, a text pattern, or an enum restriction (spec.md
// §4.3). Any zero-value field is "no constraint of that kind".
type Constraints struct {
	MinInt     *int64
	MaxInt     *int64
	MinLen     *int
	MaxLen     *int
	Pattern    *regexp.Regexp
	EnumValues []ari.ARI
}

// Check validates value (already known to match the base type) against
// the constraints, returning a TypeMismatch-shaped error on violation.
func (c Constraints) Check(value ari.ARI) error {
	if c.EnumValues != nil {
		ok := false
		for _, ev := range c.EnumValues {
			if ari.Equal(ev, value) {
				ok = true
				break
			}
		}
		if !ok {
			return TypeMismatchError{Msg: fmt.Sprintf("value %v is not one of the enum-restricted values", value)}
		}
	}
	if c.MinInt != nil || c.MaxInt != nil {
		n, ok := asInt64(value)
		if !ok {
			return TypeMismatchError{Msg: "range constraint applied to a non-integer value"}
		}
		if c.MinInt != nil && n < *c.MinInt {
			return TypeMismatchError{Msg: fmt.Sprintf("value %d below minimum %d", n, *c.MinInt)}
		}
		if c.MaxInt != nil && n > *c.MaxInt {
			return TypeMismatchError{Msg: fmt.Sprintf("value %d above maximum %d", n, *c.MaxInt)}
		}
	}
	if c.MinLen != nil || c.MaxLen != nil {
		n, ok := length(value)
		if !ok {
			return TypeMismatchError{Msg: "length constraint applied to a value with no length"}
		}
		if c.MinLen != nil && n < *c.MinLen {
			return TypeMismatchError{Msg: fmt.Sprintf("length %d below minimum %d", n, *c.MinLen)}
		}
		if c.MaxLen != nil && n > *c.MaxLen {
			return TypeMismatchError{Msg: fmt.Sprintf("length %d above maximum %d", n, *c.MaxLen)}
		}
	}
	if c.Pattern != nil {
		s, ok := value.(*ari.Literal)
		if !ok {
			return TypeMismatchError{Msg: "pattern constraint applied to a non-literal value"}
		}
		t, ok := s.Value.(ari.Text)
		if !ok {
			return TypeMismatchError{Msg: "pattern constraint applied to a non-text value"}
		}
		if !c.Pattern.MatchString(string(t)) {
			return TypeMismatchError{Msg: fmt.Sprintf("value %q does not match pattern %s", t, c.Pattern)}
		}
	}
	return nil
}

func asInt64(value ari.ARI) (int64, bool) {
	lit, ok := value.(*ari.Literal)
	if !ok {
		return 0, false
	}
	switch v := lit.Value.(type) {
	case ari.Int:
		return int64(v), true
	case ari.Vast:
		return int64(v), true
	case ari.Uint:
		return int64(v), true
	case ari.Uvast:
		return int64(v), true
	}
	return 0, false
}

func length(value ari.ARI) (int, bool) {
	lit, ok := value.(*ari.Literal)
	if !ok {
		return 0, false
	}
	switch v := lit.Value.(type) {
	case ari.Text:
		return len([]rune(string(v))), true
	case ari.Bytes:
		return len(v), true
	case ari.AC:
		return len(v.Items), true
	}
	return 0, false
}
