package cash

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var plainIntRE = regexp.MustCompile(`^-?[0-9]+$`)

// NormalizeAmount parses free-form amount text (from a manual input field or
// a spreadsheet cell) into a non-negative integer. Thousands separators and
// whitespace are stripped first; what remains must be a plain optionally
// signed decimal integer. Empty input, stray characters, decimal points,
// negative values and values too large for an int64 are all rejected with
// ok=false, never a panic.
func NormalizeAmount(raw string) (int64, bool) {
	s := strings.Map(func(r rune) rune {
		if r == ',' || r == '，' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if !plainIntRE.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
