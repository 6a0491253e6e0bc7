package utils

import (
	"encoding/json"
	"testing"
)

func TestFirstSkipsFalsyValues(t *testing.T) {
	rec := Record{"folio": "", "id": float64(0), "_id": "abc"}
	v, ok := First(rec, "folio", "id", "_id")
	if !ok || v != "abc" {
		t.Fatalf("got %v %v", v, ok)
	}
	if _, ok := First(rec, "folio", "id"); ok {
		t.Fatal("expected no truthy value")
	}
	if _, ok := First(nil, "x"); ok {
		t.Fatal("expected nil record to yield nothing")
	}
}

func TestAsInt64(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{float64(19000), 19000, true},
		{json.Number("2500"), 2500, true},
		{json.Number("2500.6"), 2501, true},
		{"1200", 1200, true},
		{" 99.4 ", 99, true},
		{"abc", 0, false},
		{nil, 0, false},
		{[]any{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := AsInt64(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("AsInt64(%v) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAsString(t *testing.T) {
	if s, _ := AsString(float64(12)); s != "12" {
		t.Fatalf("got %q", s)
	}
	if s, _ := AsString(json.Number("7")); s != "7" {
		t.Fatalf("got %q", s)
	}
	if _, ok := AsString("   "); ok {
		t.Fatal("blank string should not count")
	}
}

func TestSameID(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"3", "3", true},
		{"3", "3.0", true},
		{"03", "3", true},
		{"3", "4", false},
		{"abc", "abc", true},
		{"abc", "ABC", false},
		{"", "", false},
	}
	for _, tc := range cases {
		if got := SameID(tc.a, tc.b); got != tc.want {
			t.Errorf("SameID(%q,%q) = %v", tc.a, tc.b, got)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := SanitizeText("  <b>Dog food</b> "); got != "Dog food" {
		t.Fatalf("SanitizeText = %q", got)
	}
	if got := SanitizeText("Café & Té"); got != "Café & Té" {
		t.Fatalf("SanitizeText = %q", got)
	}
	if got := SanitizeForFormulaInjection("=SUM(A1)"); got != "'=SUM(A1)" {
		t.Fatalf("formula guard = %q", got)
	}
	if got := SanitizeForFormulaInjection("Ana"); got != "Ana" {
		t.Fatalf("formula guard = %q", got)
	}
}
