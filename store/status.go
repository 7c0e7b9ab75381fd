package store

import (
	"strconv"
	"time"
)

// Status is a point in time view of the store for operators.
type Status struct {
	Generation          uint64        `json:"generation"`
	Records             int           `json:"records"`
	FetchedAt           *time.Time    `json:"fetchedAt,omitempty"`
	Age                 time.Duration `json:"age"`
	TTL                 time.Duration `json:"ttl"`
	Fresh               bool          `json:"fresh"`
	Fingerprint         string        `json:"fingerprint,omitempty"`
	LastError           string        `json:"lastError,omitempty"`
	ConsecutiveFailures int           `json:"consecutiveFailures"`
}

// Status reports the state of the last known good list.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Generation:          s.generation,
		Records:             len(s.list),
		TTL:                 s.config.TTL,
		ConsecutiveFailures: s.failures,
	}

	if !s.fetchedAt.IsZero() {
		fetchedAt := s.fetchedAt
		st.FetchedAt = &fetchedAt
		st.Age = s.now().Sub(fetchedAt)
		st.Fresh = st.Age < s.config.TTL
		st.Fingerprint = strconv.FormatUint(s.fingerprint, 16)
	}

	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}

	return st
}
