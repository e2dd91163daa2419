// This file contains the four-part version comparator (spec.md §4.B, §8).

package ddbyte

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dot-delimited four-part version, ordered by
// (Major, Minor, Build, Revision).
type Version struct {
	Major, Minor, Build, Revision int
}

// ParseVersion parses a dot-delimited decimal version string such as
// "1.4.3.0". Missing trailing components default to 0.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return Version{}, fmt.Errorf("ddbyte: invalid version string %q", s)
	}

	var v Version
	fields := []*int{&v.Major, &v.Minor, &v.Build, &v.Revision}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("ddbyte: invalid version component %q in %q: %w", p, s, err)
		}
		*fields[i] = n
	}
	return v, nil
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than o,
// ordering lexicographically by (Major, Minor, Build, Revision).
func (v Version) Compare(o Version) int {
	for _, pair := range [][2]int{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Build, o.Build},
		{v.Revision, o.Revision},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether v is ordered before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// String renders the version in dot-delimited form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}
