package ocr

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"payhelper/pkg/roster"
)

// Line matchers, tried in order; the first match wins. Kept as an ordered
// list rather than one combined expression so the precedence stays explicit.
var (
	// name then amount at line end, e.g. "林依菱 53,493" or "郭昭德 54165"
	nameAmountRE = regexp.MustCompile(`^([\p{Han}A-Za-z\s]{1,12})\s*([0-9][0-9,]{2,})$`)
	// amount-only line, e.g. a screenshot of a bare figures column
	amountOnlyRE = regexp.MustCompile(`^([0-9][0-9,]{2,})$`)
)

// ParseRecognizedText classifies each line of one recognition result into
// candidate salary records. Lines are first stripped to the allow-list of
// letters, digits, whitespace and the comma/period variants; a line
// matching neither pattern is OCR noise and dropped without error. Every
// emitted record carries source as its provenance tag.
func ParseRecognizedText(text, source string) []roster.Record {
	var out []roster.Record
	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		if m := nameAmountRE.FindStringSubmatch(line); m != nil {
			if n, ok := parseDigits(m[2]); ok {
				name := strings.Join(strings.Fields(m[1]), "")
				out = append(out, roster.NewRecord(name, n, source))
				continue
			}
		}
		if m := amountOnlyRE.FindStringSubmatch(line); m != nil {
			if n, ok := parseDigits(m[1]); ok {
				out = append(out, roster.NewRecord("", n, source))
			}
		}
	}
	return out
}

// cleanLine drops everything outside the allow-list and folds fullwidth
// whitespace and comma/period to their ASCII forms. Go's regexp \s is
// ASCII-only, hence the whitespace folding here.
func cleanLine(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			return r
		case r == '，' || r == ',' || r == '．' || r == '.':
			return r
		}
		return -1
	}, s)
	s = strings.ReplaceAll(s, "．", ".")
	s = strings.ReplaceAll(s, "，", ",")
	return strings.TrimSpace(s)
}

// parseDigits reduces a matched amount to its digits and parses it,
// rejecting values that overflow.
func parseDigits(s string) (int64, bool) {
	d := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if d == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(d, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
