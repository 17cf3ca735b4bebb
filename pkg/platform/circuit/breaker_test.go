package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replay feeds primary call results to b: 'f' for failure, 's' for success.
func replay(b *Breaker, outcomes string) (fallback bool, last StateChange) {
	for i := 0; i < len(outcomes); i++ {
		switch outcomes[i] {
		case 'f':
			fallback, last = b.RecordFailure()
		case 's':
			var primary bool
			primary, last = b.RecordSuccess()
			fallback = !primary
		}
	}
	return fallback, last
}

func TestBreakerOutcomeSequences(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		successes    int
		outcomes     string
		wantState    State
		wantFallback bool
		wantChange   StateChange
	}{
		{
			name:      "fresh breaker routes to the primary",
			outcomes:  "",
			wantState: StateClosed,
		},
		{
			name:      "default threshold tolerates four failures",
			outcomes:  "ffff",
			wantState: StateClosed,
		},
		{
			name:         "default threshold opens on the fifth failure",
			outcomes:     "fffff",
			wantState:    StateOpen,
			wantFallback: true,
			wantChange:   StateChange{Opened: true},
		},
		{
			name:      "interleaved success keeps failures non-consecutive",
			failures:  2,
			outcomes:  "fsfsf",
			wantState: StateClosed,
		},
		{
			name:         "failures while open report no new transition",
			failures:     1,
			outcomes:     "fff",
			wantState:    StateOpen,
			wantFallback: true,
		},
		{
			name:         "a failure during recovery restarts the success count",
			failures:     1,
			successes:    2,
			outcomes:     "fsfs",
			wantState:    StateOpen,
			wantFallback: true,
		},
		{
			name:       "consecutive successes close an open breaker",
			failures:   1,
			successes:  2,
			outcomes:   "fsfss",
			wantState:  StateClosed,
			wantChange: StateChange{Closed: true},
		},
		{
			name:         "failure count restarts after closing",
			failures:     2,
			successes:    1,
			outcomes:     "ffsf",
			wantState:    StateClosed,
			wantFallback: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("result-cache", WithFailureThreshold(tt.failures), WithSuccessThreshold(tt.successes))

			fallback, change := replay(b, tt.outcomes)

			assert.Equal(t, tt.wantState, b.State())
			assert.Equal(t, tt.wantFallback, fallback)
			assert.Equal(t, tt.wantChange, change)
		})
	}
}

func TestBreakerIgnoresNonPositiveThresholds(t *testing.T) {
	b := New("result-cache", WithFailureThreshold(-1), WithSuccessThreshold(0))

	_, _ = replay(b, "fffff")
	require.True(t, b.IsOpen())

	_, change := replay(b, "sss")
	assert.True(t, change.Closed)
	assert.Equal(t, "closed", b.State().String())
}

func TestBreakerConcurrentFailuresOpenOnce(t *testing.T) {
	b := New("result-cache", WithFailureThreshold(10))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.True(t, b.IsOpen())
	assert.Equal(t, "result-cache", b.Name())
}
