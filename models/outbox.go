package models

import (
	"time"

	"gorm.io/datatypes"
)

type OutboxKind string

const (
	OutboxEmail OutboxKind = "email"
	OutboxChat  OutboxKind = "chat"
)

// Outbox stages notification payloads inside the transaction that produced
// them. Rows are dispatched after commit, in insertion order per case, so a
// rolled-back transition never leaks a notification and later notifications
// never overtake earlier ones.
type Outbox struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CaseID    uint           `gorm:"not null;index" json:"case_id"`
	Kind      OutboxKind     `gorm:"size:10;not null" json:"kind"`
	Template  string         `gorm:"size:50" json:"template"`
	Recipient string         `gorm:"size:100" json:"recipient"`
	Payload   datatypes.JSON `json:"payload"`

	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	LastError  string     `gorm:"type:text" json:"last_error"`
	SentAt     *time.Time `gorm:"index" json:"sent_at"`
	CreateTime time.Time  `gorm:"autoCreateTime" json:"create_time"`
}

func (Outbox) TableName() string {
	return "notification_outbox"
}
