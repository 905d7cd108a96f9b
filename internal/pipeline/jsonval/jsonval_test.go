package jsonval

import "testing"

func TestInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{float64(3), 3, true},
		{float64(2.6), 3, true},
		{" 7 ", 7, true},
		{"x", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := Int(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Int(%#v) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStrings(t *testing.T) {
	got, ok := Strings([]any{"a", " ", 3.0, nil, "b"})
	if !ok || len(got) != 3 || got[0] != "a" || got[1] != "3" || got[2] != "b" {
		t.Fatalf("Strings: %v %v", got, ok)
	}
	if _, ok := Strings("a,b"); ok {
		t.Fatalf("non-list accepted")
	}
}
