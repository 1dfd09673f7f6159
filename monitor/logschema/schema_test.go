package logschema

import "testing"

func TestValidate(t *testing.T) {
	err := Validate("poll_failed", map[string]interface{}{
		"surface": "holdings",
		"kind":    "transient",
		"error":   "connection refused",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = Validate("poll_failed", map[string]interface{}{
		"surface": "holdings",
	})
	if err == nil {
		t.Fatalf("expected error for missing fields")
	}
}

func TestUnknownEventPasses(t *testing.T) {
	if err := Validate("feed_teardown", nil); err != nil {
		t.Fatalf("unknown events should pass: %v", err)
	}
}

func TestKnownEvents(t *testing.T) {
	names := Known()
	if len(names) == 0 {
		t.Fatalf("expected non-empty schema list")
	}
	found := false
	for _, n := range names {
		if n == "feed_disconnected" {
			found = true
		}
	}
	if !found {
		t.Fatalf("feed_disconnected not found in schemas")
	}
}
