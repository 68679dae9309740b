// Package cnamount renders monetary amounts as formal Chinese financial
// numerals (大寫金額), the tamper-resistant spelling used on receipts and
// payslips.
package cnamount

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	cnDigits = [...]string{"零", "壹", "貳", "參", "肆", "伍", "陸", "柒", "捌", "玖"}
	// intra-section positions: ones, tens, hundreds, thousands
	cnUnits = [...]string{"", "拾", "佰", "仟"}
	// base-10,000 section units: myriad grouping
	cnSections = [...]string{"", "萬", "億", "兆"}
)

// maxInteger bounds the representable integer part: the section table ends
// at the 兆 (10^12) tier, so four sections of four digits is the ceiling.
const maxInteger = int64(1e16)

// Convert renders a signed amount as a financial-numeral string. Zero maps
// to 零元整, negative amounts are the absolute rendering prefixed with 負,
// and a non-finite input yields the empty string.
func Convert(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return ""
	}
	return ConvertDecimal(decimal.NewFromFloat(n))
}

// ConvertDecimal is the exact-arithmetic entry point; cents are derived by
// rounding the fractional part to two decimal places without float drift.
func ConvertDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return "零元整"
	}
	if d.IsNegative() {
		return "負" + ConvertDecimal(d.Neg())
	}

	integer := d.Truncate(0).IntPart()
	cents := d.Sub(d.Truncate(0)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents >= 100 { // .995 and up rounds into the next whole unit
		integer++
		cents -= 100
	}
	if integer >= maxInteger {
		return ""
	}

	intStr := integerToCN(integer)

	var frac strings.Builder
	if cents > 0 {
		if jiao := cents / 10; jiao > 0 {
			frac.WriteString(cnDigits[jiao])
			frac.WriteString("角")
		}
		if fen := cents % 10; fen > 0 {
			frac.WriteString(cnDigits[fen])
			frac.WriteString("分")
		}
	}
	if frac.Len() == 0 {
		return intStr + "元整"
	}
	return intStr + "元" + frac.String()
}

// integerToCN renders the integer part section by section (base 10,000).
// An all-zero section is dropped, but leaves a single 零 marker in front of
// the lower sections already rendered; runs of 零 collapse to one and a
// leading 零 is stripped at the end.
func integerToCN(n int64) string {
	var intStr string
	for unitSec := 0; n > 0; unitSec++ {
		sec := n % 10000
		if sec != 0 {
			secStr := sectionToCN(sec)
			if unitSec > 0 {
				secStr += cnSections[unitSec]
			}
			intStr = secStr + intStr
		} else if intStr != "" && !strings.HasPrefix(intStr, "零") {
			intStr = "零" + intStr
		}
		n /= 10000
	}
	intStr = collapseZeros(intStr)
	return strings.TrimPrefix(intStr, "零")
}

// sectionToCN renders one 4-digit section. An internal zero digit between
// two non-zero digits becomes a single 零; trailing zeros vanish.
func sectionToCN(sec int64) string {
	var out string
	zero := true
	for unitPos := 0; sec > 0; unitPos++ {
		v := sec % 10
		if v == 0 {
			if !zero {
				zero = true
				out = cnDigits[0] + out
			}
		} else {
			zero = false
			out = cnDigits[v] + cnUnits[unitPos] + out
		}
		sec /= 10
	}
	out = collapseZeros(out)
	return strings.TrimSuffix(out, "零")
}

func collapseZeros(s string) string {
	for strings.Contains(s, "零零") {
		s = strings.ReplaceAll(s, "零零", "零")
	}
	return s
}
