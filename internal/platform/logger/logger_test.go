package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]any{
		"api_key", "sk-live-123",
		"user_id", "4b7f0f7e-8a1c-4f0c-9bb1-2d5a0d1c9e11",
		"slide_index", 3,
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	hashed, _ := out[3].(string)
	if !strings.HasPrefix(hashed, "hash:") || len(hashed) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %q", hashed)
	}
	if out[5] != 3 {
		t.Fatalf("slide_index changed: %v", out[5])
	}
}

func TestSanitizeKVsTruncatesPrompts(t *testing.T) {
	long := strings.Repeat("a", maxTextValue*2)
	out := sanitizeKVs([]any{"system_prompt", long})
	got, _ := out[1].(string)
	if len(got) >= len(long) {
		t.Fatalf("prompt not truncated: len=%d", len(got))
	}
	if !strings.HasSuffix(got, "bytes)") {
		t.Fatalf("missing size suffix: %q", got[len(got)-20:])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]any{"component", "gateway", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected: %v", out)
	}
}
