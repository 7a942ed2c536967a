package settings

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSnapshotTypedAccessors(t *testing.T) {
	snap := NewSnapshot()
	snap.Store(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), map[string]json.RawMessage{
		HelmetFeeKey:        json.RawMessage(`"2500"`),
		LockRedisEnabledKey: json.RawMessage(`"yes"`),
		LockRedisAddrKey:    json.RawMessage(`" 127.0.0.1:6379 "`),
		LockRedisDBKey:      json.RawMessage(`-1`),
	})

	if got := snap.Int(HelmetFeeKey, DefaultHelmetFee); got != 2500 {
		t.Fatalf("expected helmet fee 2500, got %d", got)
	}
	if !snap.Bool(LockRedisEnabledKey, false) {
		t.Fatalf("expected redis enabled")
	}
	if got := snap.String(LockRedisAddrKey, ""); got != "127.0.0.1:6379" {
		t.Fatalf("expected trimmed addr, got %q", got)
	}
	if got := snap.Int(LockRedisDBKey, 3); got != 3 {
		t.Fatalf("expected fallback for negative db, got %d", got)
	}
	if got := snap.String(LockRedisPrefixKey, DefaultLockRedisPrefix); got != DefaultLockRedisPrefix {
		t.Fatalf("expected default prefix, got %q", got)
	}
}

func TestParseNonNegativeIntRejectsFractions(t *testing.T) {
	if _, ok := ParseNonNegativeInt(json.RawMessage(`1.5`)); ok {
		t.Fatalf("expected fractional value to be rejected")
	}
	if v, ok := ParseNonNegativeInt(json.RawMessage(`42.0`)); !ok || v != 42 {
		t.Fatalf("expected 42, got %d ok=%v", v, ok)
	}
}
