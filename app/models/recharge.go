package models

import "time"

// Recharge statuses. The zero through settled values mirror the upstream
// recharge_status_cd passed through by the status poller; the negative and
// 4xx values are internal markers. nil status means the record has not been
// picked up yet. Transitions are monotonic: nil -> Submitting -> Pending ->
// {Settled | Failed}, or straight to a terminal error state.
const (
	StatusSubmitting     = -1
	StatusPending        = 0
	StatusFailed         = 2
	StatusSettled        = 3
	StatusPreSubmitError = 5
	StatusLimitExceeded  = 404
)

// Recharge is a single airtime recharge request owned by a project.
type Recharge struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	MSISDN            string     `gorm:"type:varchar(20);not null;index" json:"msisdn"`
	ProductCode       string     `gorm:"type:varchar(20);not null" json:"product_code"`
	Denomination      int64      `gorm:"not null" json:"denomination"` // cents
	ProjectID         uint       `gorm:"not null;index" json:"project_id"`
	Project           Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Reference         string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`
	HotsocketRef      *string    `gorm:"type:varchar(64)" json:"hotsocket_ref,omitempty"`
	Status            *int       `gorm:"index" json:"status"`
	StatusConfirmedAt *time.Time `gorm:"type:datetime" json:"status_confirmed_at,omitempty"`
	Notification      string     `gorm:"type:text" json:"notification"`
	NotificationSent  bool       `gorm:"default:false" json:"notification_sent"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// RechargeError is an append-only audit trail of submission failures.
// One row per failure occurrence.
type RechargeError struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ErrorCode     string    `gorm:"type:varchar(20);not null" json:"error_code"`
	ErrorMessage  string    `gorm:"type:varchar(255)" json:"error_message"`
	RechargeID    uint      `gorm:"not null;index" json:"recharge_id"`
	LastAttemptAt time.Time `gorm:"type:datetime;not null" json:"last_attempt_at"`
	Tries         int       `gorm:"not null;default:1" json:"tries"`
}

// RechargeFailed records recharges that upstream settled as failed,
// distinct from pre-submission errors.
type RechargeFailed struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RechargeID     uint      `gorm:"not null;index" json:"recharge_id"`
	RechargeStatus string    `gorm:"type:varchar(50)" json:"recharge_status"`
	FailureMessage string    `gorm:"type:varchar(255)" json:"failure_message"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
