package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 2 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"4", 4 * time.Second},
		{"soon", 2 * time.Second},
	}
	for _, tc := range cases {
		t.Setenv("SF_TEST_DURATION", tc.raw)
		if got := Duration("SF_TEST_DURATION", 2*time.Second); got != tc.want {
			t.Fatalf("Duration(%q): want=%s got=%s", tc.raw, tc.want, got)
		}
	}
}

func TestBoolAndInt(t *testing.T) {
	t.Setenv("SF_TEST_BOOL", "off")
	if Bool("SF_TEST_BOOL", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("SF_TEST_BOOL", "maybe")
	if !Bool("SF_TEST_BOOL", true) {
		t.Fatalf("expected default true")
	}
	t.Setenv("SF_TEST_INT", "x12")
	if got := Int("SF_TEST_INT", 7); got != 7 {
		t.Fatalf("Int default: got=%d", got)
	}
	t.Setenv("SF_TEST_FLOAT", "0.25")
	if got := Float("SF_TEST_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: got=%v", got)
	}
}
