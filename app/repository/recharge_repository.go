package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/gopherairtime/gopherairtime/app/models"
)

// rechargeRepository implements the RechargeRepository interface
type rechargeRepository struct {
	db *gorm.DB
}

// NewRechargeRepository creates a new recharge repository instance
func NewRechargeRepository(db *gorm.DB) RechargeRepository {
	return &rechargeRepository{db: db}
}

func (r *rechargeRepository) Create(recharge *models.Recharge) error {
	return r.db.Create(recharge).Error
}

func (r *rechargeRepository) GetByID(id uint) (*models.Recharge, error) {
	var recharge models.Recharge
	if err := r.db.Preload("Project").First(&recharge, id).Error; err != nil {
		return nil, err
	}
	return &recharge, nil
}

func (r *rechargeRepository) List(offset, limit int) ([]models.Recharge, error) {
	var recharges []models.Recharge
	err := r.db.Order("id DESC").Offset(offset).Limit(limit).Find(&recharges).Error
	return recharges, err
}

func (r *rechargeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Recharge{}).Count(&count).Error
	return count, err
}

func (r *rechargeRepository) ListUnsubmitted() ([]models.Recharge, error) {
	var recharges []models.Recharge
	err := r.db.Preload("Project").Where("status IS NULL").Find(&recharges).Error
	return recharges, err
}

func (r *rechargeRepository) ListPending() ([]models.Recharge, error) {
	var recharges []models.Recharge
	err := r.db.Preload("Project").Where("status = ?", models.StatusPending).Find(&recharges).Error
	return recharges, err
}

func (r *rechargeRepository) ListUnnotifiedSettled() ([]models.Recharge, error) {
	var recharges []models.Recharge
	err := r.db.Preload("Project").
		Where("status = ?", models.StatusSettled).
		Where("notification IS NOT NULL AND notification <> ''").
		Where("notification_sent = ?", false).
		Find(&recharges).Error
	return recharges, err
}

func (r *rechargeRepository) ListStuckSubmitting(olderThan time.Time) ([]models.Recharge, error) {
	var recharges []models.Recharge
	err := r.db.
		Where("status = ?", models.StatusSubmitting).
		Where("updated_at < ?", olderThan).
		Find(&recharges).Error
	return recharges, err
}

// ClaimForSubmission transitions NULL -> Submitting guarded by the WHERE
// clause, so of two concurrent passes exactly one sees RowsAffected == 1.
func (r *rechargeRepository) ClaimForSubmission(id uint) (bool, error) {
	res := r.db.Model(&models.Recharge{}).
		Where("id = ? AND status IS NULL", id).
		Update("status", models.StatusSubmitting)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *rechargeRepository) ClaimLimitExceeded(id uint, confirmedAt time.Time) (bool, error) {
	res := r.db.Model(&models.Recharge{}).
		Where("id = ? AND status IS NULL", id).
		Updates(map[string]interface{}{
			"status":              models.StatusLimitExceeded,
			"status_confirmed_at": confirmedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *rechargeRepository) ResetSubmitting(id uint) error {
	return r.db.Model(&models.Recharge{}).
		Where("id = ? AND status = ?", id, models.StatusSubmitting).
		Update("status", gorm.Expr("NULL")).Error
}

func (r *rechargeRepository) SetStatus(id uint, status int, confirmedAt time.Time) error {
	return r.db.Model(&models.Recharge{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              status,
			"status_confirmed_at": confirmedAt,
		}).Error
}

func (r *rechargeRepository) SetSubmitted(id uint, hotsocketRef string, status int, confirmedAt time.Time) error {
	return r.db.Model(&models.Recharge{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"hotsocket_ref":       hotsocketRef,
			"status":              status,
			"status_confirmed_at": confirmedAt,
		}).Error
}

func (r *rechargeRepository) MarkNotified(id uint) error {
	return r.db.Model(&models.Recharge{}).
		Where("id = ?", id).
		Update("notification_sent", true).Error
}

func (r *rechargeRepository) AddError(e *models.RechargeError) error {
	return r.db.Create(e).Error
}

func (r *rechargeRepository) CountErrors(rechargeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.RechargeError{}).
		Where("recharge_id = ?", rechargeID).
		Count(&count).Error
	return count, err
}

func (r *rechargeRepository) ErrorsForRecharge(rechargeID uint) ([]models.RechargeError, error) {
	var errs []models.RechargeError
	err := r.db.Where("recharge_id = ?", rechargeID).Order("id ASC").Find(&errs).Error
	return errs, err
}

func (r *rechargeRepository) AddFailed(f *models.RechargeFailed) error {
	return r.db.Create(f).Error
}
