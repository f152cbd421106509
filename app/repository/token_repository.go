package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gopherairtime/gopherairtime/app/models"
)

// tokenRepository implements the TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository instance
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Get returns the singleton token row. Callers get gorm.ErrRecordNotFound
// before the first successful login.
func (r *tokenRepository) Get() (*models.StoreToken, error) {
	var token models.StoreToken
	if err := r.db.First(&token, models.StoreTokenID).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Upsert overwrites the singleton token row in place, creating it on the
// first login. Last writer wins; any valid unexpired token is usable, so
// a lost race is harmless.
func (r *tokenRepository) Upsert(token string, issuedAt, expiresAt time.Time) error {
	row := models.StoreToken{
		ID:        models.StoreTokenID,
		Token:     token,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "issued_at", "expires_at"}),
	}).Create(&row).Error
}
