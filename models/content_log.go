package models

import "time"

// ContentLog counts content items produced on a date. One row per
// (owner, date), enforced by the composite unique index rather than a
// pre-insert lookup, so concurrent submissions cannot create duplicates.
type ContentLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_content_owner_date" json:"owner_id"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_content_owner_date" json:"date"`
	Count     int       `gorm:"not null;default:0;check:count >= 0" json:"count"`
}
