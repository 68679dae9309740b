package cnamount

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvertIntegers(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "零元整"},
		{1, "壹元整"},
		{10, "壹拾元整"},
		{21, "貳拾壹元整"},
		{100, "壹佰元整"},
		{1005, "壹仟零伍元整"},
		{10000, "壹萬元整"},
		{30000, "參萬元整"},
		{53493, "伍萬參仟肆佰玖拾參元整"},
		{1000000, "壹佰萬元整"},
		{100000000, "壹億元整"}, // no spurious zero marker between section units
		{100000001, "壹億零壹元整"},
		{1000000000000, "壹兆元整"},
	}
	for _, c := range cases {
		if got := Convert(c.in); got != c.want {
			t.Fatalf("Convert(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConvertNegative(t *testing.T) {
	for _, n := range []float64{1, 42, 30000, 100000000} {
		if got, want := Convert(-n), "負"+Convert(n); got != want {
			t.Fatalf("Convert(%v) = %q, want %q", -n, got, want)
		}
	}
}

func TestConvertFractions(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123.45", "壹佰貳拾參元肆角伍分"},
		{"100.5", "壹佰元伍角"},
		{"100.05", "壹佰元伍分"},
		{"0.5", "元伍角"},
		{"7.00", "柒元整"},
		{"2.999", "參元整"}, // cents round up into the next whole unit
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatalf("bad decimal %q: %v", c.in, err)
		}
		if got := ConvertDecimal(d); got != c.want {
			t.Fatalf("ConvertDecimal(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConvertNonFinite(t *testing.T) {
	for _, n := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Convert(n); got != "" {
			t.Fatalf("Convert(%v) = %q, want empty", n, got)
		}
	}
}
