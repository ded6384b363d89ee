package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 1, true},
		{"0", 0, true},
		{"25000", 25000, true},
		{" 25000 ", 25000, true},
		{"1.500.000", 1500000, true},
		{"1,500,000", 1500000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"12.5", 0, false},
		{"1.500,000", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
		{"1000000000000000", MaxAmount, true},
		{"1.000.000.000.000.000", MaxAmount, true},
		{"1000000000000001", 0, false},
		{"9223372036854775807", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %d", tc.in, got)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		units  int64
		symbol string
		want   string
	}{
		{0, "Rp", "Rp 0"},
		{999, "Rp", "Rp 999"},
		{1500000, "Rp", "Rp 1.500.000"},
		{-25000, "Rp", "-Rp 25.000"},
		{1234567, "", "1.234.567"},
	}
	for _, tc := range cases {
		if got := (Money{Units: tc.units}).Format(tc.symbol); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.units, got, tc.want)
		}
	}
}
