package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	in := []interface{}{
		"password", "hunter22",
		"Authorization", "Bearer abc",
		"user_email", "a@b.co",
		"status", 200,
		"raw", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig",
	}
	out := sanitizeKVs(in)
	if len(out) != len(in) {
		t.Fatalf("len: want=%d got=%d", len(in), len(out))
	}
	for _, idx := range []int{1, 3, 5, 9} {
		if out[idx] != "[REDACTED]" {
			t.Fatalf("value %d: want redacted got=%v", idx, out[idx])
		}
	}
	if out[7] != 200 {
		t.Fatalf("status: want=200 got=%v", out[7])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"k", "v", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected: %v", out)
	}
}
