// Package version compares dotted x.y.z version strings.
package version

import (
	"strconv"
	"strings"
)

// Parse packs the first three dot-separated numbers of v into one int,
// eight bits apart. Empty parts are skipped and missing parts count as zero;
// any malformed part makes the whole version zero.
func Parse(v string) int {
	parts := strings.FieldsFunc(strings.TrimSpace(v), func(r rune) bool { return r == '.' })
	packed := 0
	for i := 0; i < 3; i++ {
		n := 0
		if i < len(parts) {
			var err error
			n, err = strconv.Atoi(parts[i])
			if err != nil {
				return 0
			}
		}
		packed = packed<<8 | n
	}
	return packed
}

// Compare returns -1, 0 or 1 as a is older than, equal to or newer than b.
func Compare(a, b string) int {
	va, vb := Parse(a), Parse(b)
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}
