package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Profile is the principal-facing record (one-to-one with User). The user
// ID doubles as the principal identifier stamped on every owned row.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
}
