package geocode

import (
	"errors"
	"testing"
	"time"
)

func TestBackoffStore(t *testing.T) {
	now := time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC)
	s := NewBackoffStore()
	s.now = func() time.Time { return now }
	cause := errors.New("429")

	if err := s.CoolingDown("geocode"); err != nil {
		t.Fatalf("expected no cooldown before any trip, got %v", err)
	}

	s.UpdateBackoff("geocode", cause)
	next, ok := s.NextRetryAt("geocode")
	if !ok {
		t.Fatal("expected a retry time")
	}
	if d := next.Sub(now); d < BASE_BACKOFF || d > BASE_BACKOFF+time.Duration(float64(BASE_BACKOFF)*JITTER_FACTOR) {
		t.Errorf("first delay %v outside [base, base+jitter]", d)
	}
	if err := s.CoolingDown("geocode"); !errors.Is(err, cause) {
		t.Errorf("expected the tripping error, got %v", err)
	}

	s.UpdateBackoff("geocode", cause)
	next, _ = s.NextRetryAt("geocode")
	if d := next.Sub(now); d < 2*BASE_BACKOFF {
		t.Errorf("expected the delay to double, got %v", d)
	}

	now = now.Add(MAX_BACKOFF)
	if err := s.CoolingDown("geocode"); err != nil {
		t.Errorf("expected the window to have passed, got %v", err)
	}

	s.ResetBackoff("geocode")
	if _, ok := s.NextRetryAt("geocode"); ok {
		t.Error("expected reset to clear the entry")
	}
}

func TestCalculateNewBackoffDelay(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{BASE_BACKOFF, 2 * BASE_BACKOFF},
		{MAX_BACKOFF / 2, MAX_BACKOFF},
		{MAX_BACKOFF, MAX_BACKOFF},
	}
	for _, tt := range tests {
		if got := calculateNewBackoffDelay(tt.in); got != tt.want {
			t.Errorf("calculateNewBackoffDelay(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
