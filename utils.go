package tetradae

import (
	"sort"

	"github.com/chewxy/math32"
)

// ToRadians converts an angle in degrees to radians.
func ToRadians(degrees float32) float32 {
	return degrees * math32.Pi / 180
}

// ToDegrees converts an angle in radians to degrees.
func ToDegrees(radians float32) float32 {
	return radians / math32.Pi * 180
}

// Clamp returns value limited to the range of min to max.
func Clamp[V float32 | float64 | int](value, min, max V) V {
	if value < min {
		return min
	} else if value > max {
		return max
	}
	return value
}

// Set represents a Set of elements.
type Set[E comparable] map[E]struct{}

// Add adds the given element to the set.
func (s Set[E]) Add(element E) {
	s[element] = struct{}{}
}

// Contains returns if the set contains the given element.
func (s Set[E]) Contains(element E) bool {
	_, ok := s[element]
	return ok
}

// Remove removes the given element from the set.
func (s Set[E]) Remove(element E) {
	delete(s, element)
}

// Sorted returns the elements of a set of strings in order.
func Sorted(s Set[string]) []string {
	out := make([]string, 0, len(s))
	for element := range s {
		out = append(out, element)
	}
	sort.Strings(out)
	return out
}
