// Package tag defines small integer entity classifications and their bitmask set
package tag

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxTags is the hard bound imposed by the Set bitmask width
const MaxTags = 64

// ErrOutOfRange is wrapped by panics for tag ids outside [0, MaxTags)
var ErrOutOfRange = errors.New("tag out of range")

// Tag identifies one partition of scene entities
type Tag uint8

// Valid reports whether t fits in a Set
func (t Tag) Valid() bool {
	return int(t) < MaxTags
}

func (t Tag) mustValid() {
	if !t.Valid() {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, t, MaxTags))
	}
}

// Set is a bitmask of tags, zero value is empty
type Set uint64

// Of builds a set from the given tags
func Of(tags ...Tag) Set {
	var s Set
	for _, t := range tags {
		s = s.With(t)
	}
	return s
}

// Has reports membership of t
func (s Set) Has(t Tag) bool {
	t.mustValid()
	return s&(1<<t) != 0
}

// With returns s plus t
func (s Set) With(t Tag) Set {
	t.mustValid()
	return s | 1<<t
}

// Without returns s minus t
func (s Set) Without(t Tag) Set {
	t.mustValid()
	return s &^ (1 << t)
}

// Any reports whether s and o share a tag
func (s Set) Any(o Set) bool {
	return s&o != 0
}

// Empty reports whether no tag is set
func (s Set) Empty() bool {
	return s == 0
}

// Len returns the number of tags in s
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Each calls fn for every tag in ascending id order
func (s Set) Each(fn func(Tag)) {
	for m := uint64(s); m != 0; m &= m - 1 {
		fn(Tag(bits.TrailingZeros64(m)))
	}
}

// Diff returns the tags only in s and the tags only in o
func (s Set) Diff(o Set) (added, removed Set) {
	return s &^ o, o &^ s
}

// Max returns the highest tag id in s, ok false when empty
func (s Set) Max() (Tag, bool) {
	if s == 0 {
		return 0, false
	}
	return Tag(63 - bits.LeadingZeros64(uint64(s))), true
}
