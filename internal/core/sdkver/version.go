// Package sdkver contains the pure logic for Windows SDK version numbers
// and the version predicates that gate patch sets.
package sdkver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dotted numeric SDK version such as "10.0.19041.0".
// Between two and four fields are accepted; missing trailing fields
// compare as zero, so "10.0" and "10.0.0.0" are equal under Compare.
type Version struct {
	parts []uint64
	raw   string
}

// Parse parses a dotted numeric version string.
func Parse(s string) (Version, error) {
	if strings.TrimSpace(s) == "" {
		return Version{}, fmt.Errorf("empty version")
	}

	fields := strings.Split(s, ".")
	if len(fields) < 2 || len(fields) > 4 {
		return Version{}, fmt.Errorf("invalid version %q: expected 2 to 4 dotted fields", s)
	}

	parts := make([]uint64, len(fields))
	for i, f := range fields {
		if f == "" {
			return Version{}, fmt.Errorf("invalid version %q: empty field", s)
		}
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: field %q is not a number", s, f)
		}
		parts[i] = n
	}

	return Version{parts: parts, raw: s}, nil
}

// MustParse parses a version and panics on error. For tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the zero Version (never returned by Parse).
func (v Version) IsZero() bool {
	return v.parts == nil
}

// String returns the version exactly as it was parsed.
func (v Version) String() string {
	return v.raw
}

// Compare returns -1, 0 or +1 when v is ordered before, equal to, or after
// other. Fields are compared numerically; absent fields count as zero.
func (v Version) Compare(other Version) int {
	n := len(v.parts)
	if len(other.parts) > n {
		n = len(other.parts)
	}
	for i := 0; i < n; i++ {
		a := v.field(i)
		b := other.field(i)
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

func (v Version) field(i int) uint64 {
	if i < len(v.parts) {
		return v.parts[i]
	}
	return 0
}
