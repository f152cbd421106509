package repository

import (
	"time"

	"github.com/gopherairtime/gopherairtime/app/models"
)

// TokenRepository defines the interface for the singleton auth token row.
type TokenRepository interface {
	Get() (*models.StoreToken, error)
	Upsert(token string, issuedAt, expiresAt time.Time) error
}

// RechargeRepository defines the interface for recharge-related database operations.
type RechargeRepository interface {
	Create(recharge *models.Recharge) error
	GetByID(id uint) (*models.Recharge, error)
	List(offset, limit int) ([]models.Recharge, error)
	Count() (int64, error)

	// Pipeline selections. Unsubmitted means status IS NULL.
	ListUnsubmitted() ([]models.Recharge, error)
	ListPending() ([]models.Recharge, error)
	ListUnnotifiedSettled() ([]models.Recharge, error)
	ListStuckSubmitting(olderThan time.Time) ([]models.Recharge, error)

	// ClaimForSubmission flips status from NULL to Submitting in a single
	// statement and reports whether this caller won the claim.
	ClaimForSubmission(id uint) (bool, error)
	// ResetSubmitting returns a stuck Submitting record to the unsubmitted
	// pool so a later pass can pick it up again.
	ResetSubmitting(id uint) error
	// ClaimLimitExceeded flips status from NULL to LimitExceeded under the
	// same guard, so overlapping passes fail a record at most once.
	ClaimLimitExceeded(id uint, confirmedAt time.Time) (bool, error)

	SetStatus(id uint, status int, confirmedAt time.Time) error
	SetSubmitted(id uint, hotsocketRef string, status int, confirmedAt time.Time) error
	MarkNotified(id uint) error

	AddError(e *models.RechargeError) error
	CountErrors(rechargeID uint) (int64, error)
	ErrorsForRecharge(rechargeID uint) ([]models.RechargeError, error)
	AddFailed(f *models.RechargeFailed) error
}

// BalanceRepository defines the interface for account balance snapshots.
type BalanceRepository interface {
	AddSnapshot(runningBalance int64) error
	Latest() (*models.AccountBalance, error)
}

// ProjectRepository defines the interface for project-related database operations.
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uint) (*models.Project, error)
	List() ([]models.Project, error)
}
