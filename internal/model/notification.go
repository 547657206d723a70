package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationPending = "pending"
	NotificationQueued  = "queued"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is the outbox row of one queued mail.
type Notification struct {
	BaseModel
	Recipient string `gorm:"size:255;not null;index" json:"recipient"`
	Subject   string `gorm:"size:255" json:"subject"`
	// confirm, reset, change_email
	Kind string `gorm:"size:32;index" json:"kind"`

	// {"body": "...", "user_id": 1}
	Payload datatypes.JSON `json:"payload"`

	// pending -> queued -> sent / failed
	Status   string     `gorm:"size:20;default:'pending';index" json:"status"`
	ErrorMsg string     `json:"error_msg"`
	SentAt   *time.Time `json:"sent_at"`
}
