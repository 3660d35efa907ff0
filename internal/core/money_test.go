package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1050}
	b := Money{Cents: 300}
	if got := a.Add(b); got.Cents != 1350 {
		t.Fatalf("Add expected 1350, got %d", got.Cents)
	}
	if got := b.Sub(a); got.Cents != -750 {
		t.Fatalf("Sub expected -750, got %d", got.Cents)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "12.34" {
		t.Fatalf("expected 12.34, got %s", b)
	}

	// Zero must serialize as a number, never null.
	b, err = json.Marshal(Money{})
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(b) != "0" {
		t.Fatalf("expected 0, got %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"7.50"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 750 {
		t.Fatalf("expected 750 cents, got %d", m.Cents)
	}
	if err := json.Unmarshal([]byte(`7.5`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 750 {
		t.Fatalf("expected 750 cents, got %d", m.Cents)
	}
}
