package cborcodec

import "fmt"

// peekHeader reads the major type and additional-info fields out of a
// CBOR data item's first byte without decoding its value, so the
// decoder can dispatch the way spec.md §4.6 describes ("dispatch on
// CBOR major type") before handing the payload to the cbor library for
// the actual value extraction.
func peekHeader(raw []byte) (major byte, addInfo byte, err error) {
	if len(raw) == 0 {
		return 0, 0, fmt.Errorf("empty CBOR item")
	}
	b := raw[0]
	return b >> 5, b & 0x1F, nil
}

const (
	majorUint  = 0
	majorNInt  = 1
	majorBytes = 2
	majorText  = 3
	majorArray = 4
	majorMap   = 5
	majorTag   = 6
	majorOther = 7

	addInfoFalse     = 20
	addInfoTrue      = 21
	addInfoNull      = 22
	addInfoUndefined = 23
	addInfoFloat16   = 25
	addInfoFloat32   = 26
	addInfoFloat64   = 27
)
