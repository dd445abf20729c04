package invites

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiryDate(t *testing.T) {
	assert := assert.New(t)
	now := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	expires := ExpiryDate(now, 7*24*time.Hour)
	assert.Equal(time.Date(2023, 4, 8, 12, 0, 0, 0, time.UTC), expires)
}

func TestExpiredNilNeverExpires(t *testing.T) {
	assert := assert.New(t)
	assert.False(Expired(nil, time.Now()))
}

func TestExpiredPast(t *testing.T) {
	assert := assert.New(t)
	now := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	assert.True(Expired(&past, now))
}

func TestExpiredFuture(t *testing.T) {
	assert := assert.New(t)
	now := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Second)
	assert.False(Expired(&future, now))
}
