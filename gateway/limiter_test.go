package gateway

import (
	"testing"
	"time"
)

func TestBurstAllowsImmediateCalls(t *testing.T) {
	l := NewTokenBucketLimiter(1, 3)

	start := time.Now()
	for i := 0; i < 3; i++ {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("burst calls should not block, took %v", elapsed)
	}
}

func TestExhaustedBucketForcesWait(t *testing.T) {
	// 20 tokens/s 的补充速率意味着耗尽后每次调用约等 50ms
	l := NewTokenBucketLimiter(20, 1)
	l.Wait()

	start := time.Now()
	l.Wait()
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("expected a refill wait after burst exhaustion, took %v", elapsed)
	}
}

func TestLimiterDefaultsOnInvalidInput(t *testing.T) {
	l := NewTokenBucketLimiter(-1, 0)
	if l.rate != 1 || l.burst != 1 {
		t.Fatalf("expected rate=1 burst=1, got rate=%v burst=%d", l.rate, l.burst)
	}
}
