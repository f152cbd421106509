package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreToken_Expired(t *testing.T) {
	issued := time.Date(2015, 5, 13, 12, 0, 0, 0, time.UTC)
	token := StoreToken{
		ID:        StoreTokenID,
		Token:     "abc-123",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(time.Hour),
	}

	assert.False(t, token.Expired(issued.Add(30*time.Minute)))
	assert.True(t, token.Expired(issued.Add(time.Hour)))
	assert.True(t, token.Expired(issued.Add(2*time.Hour)))
}
