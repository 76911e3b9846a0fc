package strips

import "encoding/binary"

// State assigns every variable exactly one domain value. The slice is
// treated as immutable once handed out; successors are built on a copy.
type State []int32

// Clone returns an independent copy of s.
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Key returns a canonical byte-string usable as a map key. Two states have
// equal keys iff they assign the same values.
func (s State) Key() string {
	buf := make([]byte, 4*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return string(buf)
}

// Equal reports whether s and o assign the same values.
func (s State) Equal(o State) bool {
	if len(s) != len(o) {
		return false
	}
	for i, v := range s {
		if o[i] != v {
			return false
		}
	}
	return true
}
