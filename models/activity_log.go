package models

import "time"

// ActivityLog is an append-only audit trail. Rows are inserted only for the
// acting principal and never updated or deleted, for anyone.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Action    string    `gorm:"size:255;not null" json:"action"`
}
