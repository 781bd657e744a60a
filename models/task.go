package models

import "time"

type Task struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	OwnerID   uint       `gorm:"index;not null" json:"owner_id"`
	ProjectID *uint      `gorm:"index" json:"project_id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	DueDate   *time.Time `json:"due_date"`
	// Status is derived from Progress on every write, never accepted from
	// the request body.
	Status     Status `gorm:"type:varchar(20);not null;default:'not_started'" json:"status"`
	Progress   int    `gorm:"not null;default:0;check:progress >= 0 AND progress <= 100" json:"progress"`
	AssignedTo *uint  `gorm:"index" json:"assigned_to"`
}

// StatusForProgress derives the task status: 0 means not started, 100 means
// completed, anything in between is ongoing.
func StatusForProgress(progress int) Status {
	switch {
	case progress <= 0:
		return StatusNotStarted
	case progress >= 100:
		return StatusCompleted
	default:
		return StatusOngoing
	}
}
