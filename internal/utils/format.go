package utils

import "strconv"

// FormatWithCommas renders n with thousands separators for CLI output.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	start := 0
	if n < 0 {
		start = 1
	}
	for i := len(s) - 3; i > start; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
