package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheck_AllowsUpToLimit(t *testing.T) {
	limiter := New(3, time.Minute)

	for i := 1; i <= 3; i++ {
		decision := limiter.Check("client-a")
		require.True(t, decision.Allowed, "request %d", i)
		require.Equal(t, 3-i, decision.Remaining)
	}

	decision := limiter.Check("client-a")
	require.False(t, decision.Allowed)
	require.Equal(t, 0, decision.Remaining)
	require.GreaterOrEqual(t, decision.RetryAfter, 1)
	require.LessOrEqual(t, decision.RetryAfter, 60)
}

func TestCheck_ClientsAreIndependent(t *testing.T) {
	limiter := New(1, time.Minute)

	require.True(t, limiter.Check("client-a").Allowed)
	require.False(t, limiter.Check("client-a").Allowed)
	require.True(t, limiter.Check("client-b").Allowed)
}

func TestCheck_WindowReset(t *testing.T) {
	limiter := New(1, 30*time.Millisecond)

	require.True(t, limiter.Check("client-a").Allowed)
	require.False(t, limiter.Check("client-a").Allowed)

	time.Sleep(50 * time.Millisecond)

	decision := limiter.Check("client-a")
	require.True(t, decision.Allowed)
	require.Equal(t, 0, decision.Remaining)
}

func TestCheck_ResetAtStableWithinWindow(t *testing.T) {
	limiter := New(5, time.Minute)

	first := limiter.Check("client-a")
	second := limiter.Check("client-a")
	require.Equal(t, first.ResetAt, second.ResetAt)
}

// K concurrent checks must admit exactly the configured budget.
func TestCheck_ConcurrentAdmission(t *testing.T) {
	const (
		budget  = 10
		clients = 50
	)
	limiter := New(budget, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Check("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, budget, allowed)
}

func TestSweep_DropsExpiredRecords(t *testing.T) {
	limiter := New(5, time.Minute)

	limiter.Check("stale")
	limiter.Check("fresh")

	limiter.mu.Lock()
	limiter.records["stale"].resetAt = time.Now().UTC().Add(-time.Second)
	limiter.mu.Unlock()

	limiter.sweep(time.Now().UTC())

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	require.NotContains(t, limiter.records, "stale")
	require.Contains(t, limiter.records, "fresh")
}

func TestStartSweep_StopIsIdempotent(t *testing.T) {
	limiter := New(5, time.Minute)

	stop := limiter.StartSweep()
	stop()
	stop()
}

func TestDefaults(t *testing.T) {
	limiter := New(0, 0)
	require.Equal(t, 10, limiter.Limit())
	require.Equal(t, time.Minute, limiter.window)
}
