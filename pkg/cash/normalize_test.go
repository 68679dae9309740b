package cash

import "testing"

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"30,000", 30000, true},
		{"30000", 30000, true},
		{" 53,493 ", 53493, true},
		{"0", 0, true},
		{"1，234", 1234, true}, // fullwidth separator from pasted text
		{"-5", 0, false},
		{"12.5", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12a3", 0, false},
		{"--5", 0, false},
		{"99999999999999999999999", 0, false}, // overflows int64
	}
	for _, c := range cases {
		got, ok := NormalizeAmount(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("NormalizeAmount(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
