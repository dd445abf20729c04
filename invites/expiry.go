package invites

import "time"

// ExpiryDate computes the expiry for an invitation issued now
func ExpiryDate(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl).UTC()
}

// Expired reports whether a point in time has passed, a nil
// expiry never expires
func Expired(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}
	return t.Before(now)
}
