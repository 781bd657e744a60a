package models

// Status is shared by projects and tasks.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusOngoing    Status = "ongoing"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}
