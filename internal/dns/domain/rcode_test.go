package domain

import (
	"testing"
)

func TestRCode_IsValid(t *testing.T) {
	cases := []struct {
		code RCode
		want bool
	}{
		{0, true}, {4, true}, {15, true}, {16, false}, {255, false},
	}
	for _, tc := range cases {
		if got := tc.code.IsValid(); got != tc.want {
			t.Errorf("IsValid(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestRCode_String(t *testing.T) {
	cases := []struct {
		code RCode
		want string
	}{
		{0, "NOERROR"}, {1, "FORMERR"}, {2, "SERVFAIL"}, {3, "NXDOMAIN"}, {4, "NOTIMP"}, {5, "REFUSED"},
		{11, "UNKNOWN(11)"}, {255, "UNKNOWN(255)"},
	}
	for _, tc := range cases {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("String(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestParseRCode(t *testing.T) {
	cases := []struct {
		input string
		want  RCode
	}{
		{"NOERROR", 0}, {"FORMERR", 1}, {"SERVFAIL", 2}, {"NXDOMAIN", 3}, {"NOTIMP", 4}, {"REFUSED", 5},
		{"", 0}, {"foo", 0},
	}
	for _, tc := range cases {
		if got := ParseRCode(tc.input); got != tc.want {
			t.Errorf("ParseRCode(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
