package models

import "time"

// AccountBalance is an append-only snapshot of the upstream running balance,
// written after every balance query and every settled recharge.
type AccountBalance struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RunningBalance int64     `gorm:"not null" json:"running_balance"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
