package util

import "testing"

func TestFormatThousands(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		1234567:   "1,234,567",
		1234567.8: "1,234,568",
		-4500:     "-4,500",
	}
	for in, want := range cases {
		if got := FormatThousands(in); got != want {
			t.Errorf("FormatThousands(%v) = %q, want %q", in, got, want)
		}
	}
}
