package admission

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roomkey/internal/app/directory"
)

func TestMemoryLedgerHoldsExpire(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewMemoryLedger(30 * time.Second)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	if err := l.Hold(ctx, "r", "observer-1"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(10 * time.Second)
	if err := l.Hold(ctx, "r", "observer-2"); err != nil {
		t.Fatal(err)
	}

	held, _ := l.Held(ctx, "r")
	sort.Strings(held)
	if diff := cmp.Diff([]string{"observer-1", "observer-2"}, held); diff != "" {
		t.Fatalf("held (-want +got):\n%s", diff)
	}

	now = now.Add(20 * time.Second)
	held, _ = l.Held(ctx, "r")
	if diff := cmp.Diff([]string{"observer-2"}, held); diff != "" {
		t.Fatalf("after first expiry (-want +got):\n%s", diff)
	}

	now = now.Add(time.Hour)
	if held, _ = l.Held(ctx, "r"); len(held) != 0 {
		t.Fatalf("held=%v, want none", held)
	}
	if len(l.rooms) != 0 {
		t.Fatalf("idle room not forgotten: %d entries", len(l.rooms))
	}
}

func TestMemoryLedgerAcquireHonorsContext(t *testing.T) {
	l := NewMemoryLedger(0)

	release, err := l.Acquire(context.Background(), "r")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx, "r"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second Acquire err=%v, want DeadlineExceeded", err)
	}

	other, err := l.Acquire(context.Background(), "other-room")
	if err != nil {
		t.Fatalf("other room should not be blocked: %v", err)
	}
	other()

	release()
	release()

	again, err := l.Acquire(context.Background(), "r")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()

	if len(l.rooms) != 0 {
		t.Fatalf("rooms=%d after all releases, want 0", len(l.rooms))
	}
}

func TestRedisLedger(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	room := "ledger-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { rdb.Del(context.Background(), lockKey(room), heldKey(room)) })

	now := time.Now()
	l := NewRedisLedger(rdb, time.Minute)
	l.now = func() time.Time { return now }

	release, err := l.Acquire(ctx, room)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	short, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(short, room); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("contended Acquire err=%v, want ErrLockTimeout", err)
	}

	if err := l.Hold(ctx, room, "observer-1"); err != nil {
		t.Fatalf("Hold: %v", err)
	}
	held, err := l.Held(ctx, room)
	if err != nil {
		t.Fatalf("Held: %v", err)
	}
	if diff := cmp.Diff([]string{"observer-1"}, held); diff != "" {
		t.Fatalf("held (-want +got):\n%s", diff)
	}

	now = now.Add(2 * time.Minute)
	if held, _ = l.Held(ctx, room); len(held) != 0 {
		t.Fatalf("held=%v after expiry, want none", held)
	}

	release()
	again, err := l.Acquire(ctx, room)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
}

func TestRedisLockOutlivesObserverSection(t *testing.T) {
	if directory.CallTimeout >= ObserverSectionTimeout {
		t.Fatalf("directory call timeout %v must be shorter than the observer section %v", directory.CallTimeout, ObserverSectionTimeout)
	}
	if ObserverSectionTimeout >= redisLockTTL {
		t.Fatalf("observer section %v must be shorter than the Redis lock TTL %v", ObserverSectionTimeout, redisLockTTL)
	}
}

func TestRedisReleaseFailureIsLogged(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })

	var buf bytes.Buffer
	l := NewRedisLedger(rdb, 0)
	l.logger = zerolog.New(&buf)

	l.release(lockKey("exam"), "token")

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, lockKey("exam")) {
		t.Fatalf("release failure not logged at warn: %q", out)
	}
}
