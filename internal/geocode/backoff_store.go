package geocode

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	BASE_BACKOFF   = 1 * time.Second
	MAX_BACKOFF    = 2 * time.Minute
	BACKOFF_FACTOR = 2.0
	JITTER_FACTOR  = 0.5
)

type backoffData struct {
	BackoffDelay time.Duration
	NextRetryAt  time.Time
	LastErr      error
}

// BackoffStore tracks per-upstream cooldowns after rate-limit responses.
// Each consecutive trip doubles the delay up to MAX_BACKOFF; a success clears it.
type BackoffStore struct {
	mu       sync.RWMutex
	backoffs map[string]backoffData
	now      func() time.Time
}

func NewBackoffStore() *BackoffStore {
	return &BackoffStore{
		backoffs: make(map[string]backoffData),
		now:      time.Now,
	}
}

// NextRetryAt returns when key may be called again.
func (s *BackoffStore) NextRetryAt(key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if backoff, exists := s.backoffs[key]; exists {
		return backoff.NextRetryAt.UTC(), true
	}
	return time.Time{}, false
}

// CoolingDown returns the error that tripped the backoff of key while its window is open, nil otherwise.
func (s *BackoffStore) CoolingDown(key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	backoff, exists := s.backoffs[key]
	if !exists || !s.now().Before(backoff.NextRetryAt) {
		return nil
	}
	return backoff.LastErr
}

// UpdateBackoff starts or extends the cooldown of key.
func (s *BackoffStore) UpdateBackoff(key string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if backoff, exists := s.backoffs[key]; exists {
		backoff.BackoffDelay = calculateNewBackoffDelay(backoff.BackoffDelay)
		backoff.NextRetryAt = s.calculateNextRetryAt(backoff.BackoffDelay)
		backoff.LastErr = cause
		s.backoffs[key] = backoff
	} else {
		s.backoffs[key] = backoffData{
			BackoffDelay: BASE_BACKOFF,
			NextRetryAt:  s.calculateNextRetryAt(BASE_BACKOFF),
			LastErr:      cause,
		}
	}
}

func (s *BackoffStore) ResetBackoff(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.backoffs, key)
}

func (s *BackoffStore) calculateNextRetryAt(backoff time.Duration) time.Time {
	jitter := time.Duration(rand.Float64() * float64(backoff) * JITTER_FACTOR)
	backoff += jitter
	if backoff > MAX_BACKOFF {
		backoff = MAX_BACKOFF
	}
	return s.now().Add(backoff).UTC()
}

func calculateNewBackoffDelay(backoffDelay time.Duration) time.Duration {
	backoffDelay *= BACKOFF_FACTOR
	if backoffDelay >= MAX_BACKOFF {
		backoffDelay = MAX_BACKOFF
	}
	return backoffDelay
}
