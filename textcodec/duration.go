package textcodec

import (
	"fmt"
	"strconv"
	"strings"
)

// parseISO8601Duration parses the subset of ISO-8601 durations this
// codec emits: [-]P[nD]T[nH][nM][nS], where a leading '-' negates the
// whole duration. time.ParseDuration does not accept ISO-8601 syntax, so
// this is hand-rolled like the rest of the grammar.
func parseISO8601Duration(s string) (int64, int32, error) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'P' {
		return 0, 0, fmt.Errorf("not an ISO-8601 duration: %q", s)
	}
	i := 1
	var days, hours, minutes int64
	var seconds float64
	inTime := false
	for i < len(s) {
		c := s[i]
		if c == 'T' {
			inTime = true
			i++
			continue
		}
		j := i
		for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
			j++
		}
		if j == i || j >= len(s) {
			return 0, 0, fmt.Errorf("malformed duration: %q", s)
		}
		numStr := s[i:j]
		unit := s[j]
		switch {
		case !inTime && unit == 'D':
			n, err := strconv.ParseInt(numStr, 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("malformed duration: %q", s)
			}
			days = n
		case inTime && unit == 'H':
			n, err := strconv.ParseInt(numStr, 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("malformed duration: %q", s)
			}
			hours = n
		case inTime && unit == 'M':
			n, err := strconv.ParseInt(numStr, 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("malformed duration: %q", s)
			}
			minutes = n
		case inTime && unit == 'S':
			f, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("malformed duration: %q", s)
			}
			seconds = f
		default:
			return 0, 0, fmt.Errorf("unsupported duration field %q in %q", string(unit), s)
		}
		i = j + 1
	}
	total := days*86400 + hours*3600 + minutes*60
	wholeSec := int64(seconds)
	nanos := int32((seconds - float64(wholeSec)) * 1e9)
	if neg {
		return -(total + wholeSec), -nanos, nil
	}
	return total + wholeSec, nanos, nil
}

// formatISO8601Duration is parseISO8601Duration's inverse.
func formatISO8601Duration(totalSecs int64, nanos int32) string {
	neg := totalSecs < 0 || nanos < 0
	if neg {
		totalSecs = -totalSecs
		nanos = -nanos
	}
	days := totalSecs / 86400
	rem := totalSecs % 86400
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	seconds := rem % 60

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	b.WriteString("T")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 || nanos > 0 || (days == 0 && hours == 0 && minutes == 0) {
		if nanos > 0 {
			fmt.Fprintf(&b, "%d.%09dS", seconds, nanos)
		} else {
			fmt.Fprintf(&b, "%dS", seconds)
		}
	}
	return b.String()
}
