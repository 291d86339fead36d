package core

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	cases := []struct {
		m    Month
		want string
	}{
		{Month{2024, time.March}, "2024-03"},
		{Month{2024, time.December}, "2024-12"},
		{Month{999, time.January}, "0999-01"},
	}
	for _, tc := range cases {
		if got := tc.m.Key(); got != tc.want {
			t.Fatalf("Key(%v) = %q, want %q", tc.m, got, tc.want)
		}
	}
}

func TestParseMonthKey(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"2024-03", Month{2024, time.March}, true},
		{"2024-12", Month{2024, time.December}, true},
		{"2024-13", Month{}, false},
		{"2024-00", Month{}, false},
		{"2024-3", Month{}, false},
		{"garbage", Month{}, false},
		{"", Month{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseMonthKey(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseMonthKey(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseMonthKeyRoundTrip(t *testing.T) {
	m := Month{2023, time.November}
	parsed, ok := ParseMonthKey(m.Key())
	if !ok || parsed != m {
		t.Fatalf("round trip failed: %v -> %v (ok=%v)", m, parsed, ok)
	}
}

func TestSortedMonths(t *testing.T) {
	totals := map[Month]float64{
		{2024, time.March}:    1,
		{2023, time.December}: 1,
		{2024, time.January}:  1,
	}

	asc := SortedMonths(totals, false)
	wantAsc := []Month{{2023, time.December}, {2024, time.January}, {2024, time.March}}
	for i, m := range wantAsc {
		if asc[i] != m {
			t.Fatalf("ascending[%d] = %v, want %v", i, asc[i], m)
		}
	}

	desc := SortedMonths(totals, true)
	for i := range desc {
		if desc[i] != wantAsc[len(wantAsc)-1-i] {
			t.Fatalf("descending[%d] = %v, want %v", i, desc[i], wantAsc[len(wantAsc)-1-i])
		}
	}
}

func TestMonthMarshalText(t *testing.T) {
	b, err := Month{2024, time.March}.MarshalText()
	if err != nil || string(b) != "2024-03" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
	var m Month
	if err := m.UnmarshalText([]byte("2024-07")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if m != (Month{2024, time.July}) {
		t.Fatalf("UnmarshalText = %v", m)
	}
	if err := m.UnmarshalText([]byte("nope")); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}
