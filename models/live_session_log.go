package models

import "time"

// LiveSessionLog records one hosted live session. Unlike ContentLog,
// multiple rows per (owner, date) are expected: the same day can have
// several sessions with different hosts, and daily hours sum across them.
type LiveSessionLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Host      string    `gorm:"size:255" json:"host"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Hours     float64   `gorm:"not null;default:0;check:hours >= 0" json:"hours"`
}
