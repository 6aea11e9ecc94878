package middleware

import "testing"

func TestSessionRateLimiterBurst(t *testing.T) {
	limiter, err := NewSessionRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 60,
		BurstSize:         3,
		CacheSize:         8,
	}, nil)
	if err != nil {
		t.Fatalf("NewSessionRateLimiter() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if !limiter.Allow("session-a") {
			t.Fatalf("request %d within burst was denied", i+1)
		}
	}
	if limiter.Allow("session-a") {
		t.Errorf("request past burst was allowed")
	}

	// A different session has its own bucket.
	if !limiter.Allow("session-b") {
		t.Errorf("fresh session was denied")
	}
}

func TestSessionRateLimiterRemaining(t *testing.T) {
	limiter, err := NewSessionRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 60,
		BurstSize:         5,
		CacheSize:         8,
	}, nil)
	if err != nil {
		t.Fatalf("NewSessionRateLimiter() error = %v", err)
	}

	remaining, limit := limiter.Remaining("unseen")
	if remaining != 5 || limit != 5 {
		t.Errorf("Remaining() for unseen session = %d/%d, want 5/5", remaining, limit)
	}

	limiter.Allow("seen")
	remaining, _ = limiter.Remaining("seen")
	if remaining >= 5 {
		t.Errorf("Remaining() after one request = %d, want < 5", remaining)
	}
}
