package auth

import (
	"sync"
	"time"
)

// RevocationList remembers revoked token IDs until the tokens expire.
// It is process-local; a restart forgets revocations.
type RevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time // token ID -> token expiry
	now     func() time.Time
}

// NewRevocationList creates an empty revocation list.
func NewRevocationList(now func() time.Time) *RevocationList {
	if now == nil {
		now = time.Now
	}
	return &RevocationList{revoked: make(map[string]time.Time), now: now}
}

// Revoke marks id as revoked until expiresAt.
func (l *RevocationList) Revoke(id string, expiresAt time.Time) {
	if id == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked()
	l.revoked[id] = expiresAt
}

// IsRevoked reports whether id was revoked and has not yet expired.
func (l *RevocationList) IsRevoked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	exp, ok := l.revoked[id]
	return ok && l.now().Before(exp)
}

// Len returns the number of tracked revocations.
func (l *RevocationList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.revoked)
}

func (l *RevocationList) pruneLocked() {
	now := l.now()
	for id, exp := range l.revoked {
		if !now.Before(exp) {
			delete(l.revoked, id)
		}
	}
}
