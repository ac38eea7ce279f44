package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ROADMAP_TEST_INT", "abc")
	if got := Int("ROADMAP_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("ROADMAP_TEST_INT", " 42 ")
	if got := Int("ROADMAP_TEST_INT", 7, nil); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
}

func TestSeconds(t *testing.T) {
	t.Setenv("ROADMAP_TEST_TTL", "90")
	if got := Seconds("ROADMAP_TEST_TTL", time.Hour, nil); got != 90*time.Second {
		t.Fatalf("Seconds: want=90s got=%s", got)
	}
	t.Setenv("ROADMAP_TEST_TTL", "-1")
	if got := Seconds("ROADMAP_TEST_TTL", time.Hour, nil); got != time.Hour {
		t.Fatalf("Seconds: want=1h got=%s", got)
	}
}

func TestListAndBool(t *testing.T) {
	t.Setenv("ROADMAP_TEST_LIST", "a, b,,c ")
	got := List("ROADMAP_TEST_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("List: got=%v", got)
	}
	t.Setenv("ROADMAP_TEST_BOOL", "on")
	if !Bool("ROADMAP_TEST_BOOL", false) {
		t.Fatalf("Bool: want=true")
	}
	if String("ROADMAP_TEST_MISSING", "dflt", nil) != "dflt" {
		t.Fatalf("String: want default")
	}
}
