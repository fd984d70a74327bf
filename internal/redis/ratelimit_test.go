package redis

import (
	"testing"
	"time"
)

func TestParseLimitResult(t *testing.T) {
	res, err := parseLimitResult([]interface{}{int64(1), int64(3), int64(42)}, 5)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !res.Allowed || res.Remaining != 3 || res.ResetIn != 42*time.Second || res.Limit != 5 {
		t.Fatalf("unexpected result %+v", res)
	}

	blocked, err := parseLimitResult([]interface{}{int64(0), int64(0), int64(7)}, 5)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if blocked.Allowed {
		t.Fatalf("expected request to be blocked")
	}
}

func TestParseLimitResultRejectsGarbage(t *testing.T) {
	for _, raw := range []interface{}{"nope", []interface{}{int64(1)}, []interface{}{"1", "2", "3"}} {
		if _, err := parseLimitResult(raw, 5); err == nil {
			t.Errorf("expected error for %#v", raw)
		}
	}
}
