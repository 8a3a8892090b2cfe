package distribution

import (
	"fmt"
	"strings"
)

const (
	// BarMark is the character repeated once per counted value.
	BarMark = "#"

	// Precision is the number of decimal places for bucket boundaries.
	Precision = 6
)

// RenderText renders one line per bucket:
//
//	<lo> - <hi> | <bar> (<count>)
//
// Boundaries are interpolated linearly over [MinVal, MaxVal].
func RenderText(d Distribution) string {
	var b strings.Builder
	n := len(d.Buckets)
	if n == 0 {
		return ""
	}

	width := d.MaxVal - d.MinVal
	for i, count := range d.Buckets {
		lo := d.MinVal + width*float64(i)/float64(n)
		hi := d.MinVal + width*float64(i+1)/float64(n)
		fmt.Fprintf(&b, "%*.*f - %*.*f | %s (%d)\n",
			Precision+6, Precision, lo,
			Precision+6, Precision, hi,
			strings.Repeat(BarMark, count), count)
	}
	return b.String()
}
