package repository

import (
	"gorm.io/gorm"

	"github.com/gopherairtime/gopherairtime/app/models"
)

// balanceRepository implements the BalanceRepository interface
type balanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new balance repository instance
func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

// AddSnapshot appends one balance reading. The series is never mutated.
func (r *balanceRepository) AddSnapshot(runningBalance int64) error {
	return r.db.Create(&models.AccountBalance{RunningBalance: runningBalance}).Error
}

func (r *balanceRepository) Latest() (*models.AccountBalance, error) {
	var snapshot models.AccountBalance
	if err := r.db.Order("id DESC").First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}
