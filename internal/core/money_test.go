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
		{"1000", 100000, true},
		{"-1", 0, false},
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

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{20000, "200"},
		{19999, "199.99"},
		{1050, "10.5"},
		{1, "0.01"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("cents %d: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
	if got := (Money{Cents: 1050}).Display(); got != "10.50" {
		t.Fatalf("Display expected 10.50, got %q", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 123456})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1234.56" {
		t.Fatalf("expected bare decimal, got %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("200"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 20000 {
		t.Fatalf("expected 20000 cents, got %d", m.Cents)
	}

	if err := json.Unmarshal([]byte("-3"), &m); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}
