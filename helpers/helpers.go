// Package helpers holds the human-readable formatting used in run summaries
// and progress lines.
package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatLatency formats a call latency at a resolution that suits its size:
//
//	850ns, 45.2µs, 12.345ms, 1.204s, 2m3.5s
//
// Trailing zeros are trimmed, so 1.5ms prints as "1.5ms", not "1.500ms".
func FormatLatency(d time.Duration) string {
	if d < 0 {
		return "-" + FormatLatency(-d)
	}

	switch {
	case d == 0:
		return "0s"
	case d < time.Microsecond:
		return strconv.FormatInt(d.Nanoseconds(), 10) + "ns"
	case d < time.Millisecond:
		return trimFloat(float64(d)/float64(time.Microsecond), 1) + "µs"
	case d < time.Second:
		return trimFloat(float64(d)/float64(time.Millisecond), 3) + "ms"
	case d < time.Minute:
		return trimFloat(d.Seconds(), 3) + "s"
	}

	mins := d / time.Minute
	rest := (d - mins*time.Minute).Seconds()
	if rest < 0.05 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dm%ss", mins, trimFloat(rest, 1))
}

// trimFloat formats v with at most decimals places and no trailing zeros.
func trimFloat(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// FormatCount formats a call count with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	digits := strconv.Itoa(n)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatShare formats part as a percentage of total with two decimals.
// A zero total formats as "0.00%".
func FormatShare(part, total int) string {
	if total <= 0 {
		return "0.00%"
	}
	return strconv.FormatFloat(float64(part)/float64(total)*100, 'f', 2, 64) + "%"
}

// FormatThroughput formats calls completed over wall as calls per second.
func FormatThroughput(calls int, wall time.Duration) string {
	if wall <= 0 {
		return "n/a"
	}
	return strconv.FormatFloat(float64(calls)/wall.Seconds(), 'f', 2, 64) + " calls/s"
}
