package models

import "time"

// StoreTokenID is the fixed primary key of the singleton token row.
// The token is overwritten in place on every login and never deleted.
const StoreTokenID = 1

// StoreToken holds the current Hotsocket auth token and its lifetime.
type StoreToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(255);not null" json:"-"`
	IssuedAt  time.Time `gorm:"type:datetime;not null" json:"issued_at"`
	ExpiresAt time.Time `gorm:"type:datetime;not null" json:"expires_at"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *StoreToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
