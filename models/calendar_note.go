package models

import "time"

// CalendarNote is a free-text note pinned to a date. Multiple notes per
// (owner, date) are allowed.
type CalendarNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Body      string    `gorm:"type:text" json:"body"`
}
