package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

func newTestThrottle(t *testing.T, max int, lockout time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, max, lockout), mr
}

func TestFailureKey_SeparatesKinds(t *testing.T) {
	u := failureKey(domain.KindUser, "alice")
	a := failureKey(domain.KindAdmin, "alice")

	if u != "login:failures:user:alice" {
		t.Fatalf("unexpected user key %q", u)
	}
	if u == a {
		t.Fatalf("user and admin counters must not share a key")
	}
}

func TestNewLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if th.maxFailures != 5 || th.lockout != defaultLockout {
		t.Fatalf("unexpected defaults: max=%d lockout=%s", th.maxFailures, th.lockout)
	}

	th = NewLoginThrottle(nil, 3, time.Minute)
	if th.maxFailures != 3 || th.lockout != time.Minute {
		t.Fatalf("unexpected config: max=%d lockout=%s", th.maxFailures, th.lockout)
	}
}

func TestLoginThrottle_LocksAtThreshold(t *testing.T) {
	th, _ := newTestThrottle(t, 3, 15*time.Minute)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		locked, err := th.Locked(ctx, domain.KindUser, "alice")
		if err != nil {
			t.Fatalf("locked: %v", err)
		}
		if locked {
			t.Fatalf("locked after only %d failures", i-1)
		}
		n, err := th.RecordFailure(ctx, domain.KindUser, "alice")
		if err != nil {
			t.Fatalf("record failure: %v", err)
		}
		if n != i {
			t.Fatalf("expected count %d, got %d", i, n)
		}
	}

	locked, err := th.Locked(ctx, domain.KindUser, "alice")
	if err != nil || !locked {
		t.Fatalf("expected lock after 3 failures, got locked=%v err=%v", locked, err)
	}
	locked, _ = th.Locked(ctx, domain.KindAdmin, "alice")
	if locked {
		t.Fatalf("admin alice must not inherit the user lock")
	}
}

func TestLoginThrottle_WindowStartsAtFirstFailure(t *testing.T) {
	th, mr := newTestThrottle(t, 2, 10*time.Minute)
	ctx := context.Background()
	key := failureKey(domain.KindUser, "bob")

	if _, err := th.RecordFailure(ctx, domain.KindUser, "bob"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 10*time.Minute {
		t.Fatalf("expected ttl 10m, got %s", ttl)
	}

	mr.FastForward(4 * time.Minute)
	if _, err := th.RecordFailure(ctx, domain.KindUser, "bob"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 6*time.Minute {
		t.Fatalf("later failures must not extend the window, ttl=%s", ttl)
	}

	mr.FastForward(6 * time.Minute)
	locked, err := th.Locked(ctx, domain.KindUser, "bob")
	if err != nil || locked {
		t.Fatalf("expected lock to lapse with the window, got locked=%v err=%v", locked, err)
	}
}

func TestLoginThrottle_Reset(t *testing.T) {
	th, mr := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if _, err := th.RecordFailure(ctx, domain.KindAdmin, "root"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if err := th.Reset(ctx, domain.KindAdmin, "root"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mr.Exists(failureKey(domain.KindAdmin, "root")) {
		t.Fatalf("expected counter to be removed")
	}
	if locked, _ := th.Locked(ctx, domain.KindAdmin, "root"); locked {
		t.Fatalf("expected unlocked after reset")
	}
}

func TestLoginThrottle_StoreDown(t *testing.T) {
	th, mr := newTestThrottle(t, 3, time.Minute)
	mr.Close()

	if _, err := th.Locked(context.Background(), domain.KindUser, "alice"); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
	if _, err := th.RecordFailure(context.Background(), domain.KindUser, "alice"); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}
