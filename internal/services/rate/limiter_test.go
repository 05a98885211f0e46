package rate_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/redis"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/rate"
)

func TestAllowRequestBlocksPastLimit(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := rate.NewLimiter(redrepo.NewRateRepo(client), 3, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, ok, err := limiter.AllowRequest(ctx, 42); err != nil || !ok {
			t.Fatalf("request %d should pass, ok=%v err=%v", i+1, ok, err)
		}
	}

	retryAfter, ok, err := limiter.AllowRequest(ctx, 42)
	if err != nil {
		t.Fatalf("allow request: %v", err)
	}
	if ok {
		t.Fatalf("fourth request in the window should be blocked")
	}
	if retryAfter <= 0 {
		t.Fatalf("blocked request should carry a retry hint, got %d", retryAfter)
	}

	// Another user is unaffected.
	if _, ok, err := limiter.AllowRequest(ctx, 43); err != nil || !ok {
		t.Fatalf("other user should pass, ok=%v err=%v", ok, err)
	}
}

func TestMessageLimitIndependentOfRequestLimit(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := rate.NewLimiter(redrepo.NewRateRepo(client), 1, 2)
	ctx := context.Background()

	if _, ok, err := limiter.AllowRequest(ctx, 7); err != nil || !ok {
		t.Fatalf("first request should pass, ok=%v err=%v", ok, err)
	}
	if _, ok, _ := limiter.AllowRequest(ctx, 7); ok {
		t.Fatalf("second request should be blocked")
	}

	for i := 0; i < 2; i++ {
		if _, ok, err := limiter.AllowMessage(ctx, 7); err != nil || !ok {
			t.Fatalf("message %d should still pass, ok=%v err=%v", i+1, ok, err)
		}
	}
	if _, ok, _ := limiter.AllowMessage(ctx, 7); ok {
		t.Fatalf("third message in a minute should be blocked")
	}
}

func TestZeroLimitDisablesThrottle(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := rate.NewLimiter(redrepo.NewRateRepo(client), 0, 0)
	for i := 0; i < 50; i++ {
		if _, ok, err := limiter.AllowRequest(context.Background(), 9); err != nil || !ok {
			t.Fatalf("disabled limiter should always pass, ok=%v err=%v", ok, err)
		}
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
