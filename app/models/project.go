package models

import "time"

// Project groups recharges under an owner and bounds spending per recharge.
// The conversation fields are the SMS gateway coordinates used when
// notifying this project's recipients.
type Project struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	OwnerID           uint      `gorm:"not null;index" json:"owner_id"`
	Name              string    `gorm:"type:varchar(30);not null" json:"name"`
	Budget            *int64    `json:"budget,omitempty"`
	RechargeLimit     int64     `gorm:"not null" json:"recharge_limit"`
	AccountID         string    `gorm:"type:varchar(64)" json:"account_id"`
	ConversationID    string    `gorm:"type:varchar(64)" json:"conversation_id"`
	ConversationToken string    `gorm:"type:varchar(64)" json:"-"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
