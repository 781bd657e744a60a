// Package policy is the single authorization predicate applied before every
// data access. It replaces what the hosted platform expressed as per-table
// row-level security: one evaluation function taking the principal, the
// operation kind and the persisted/proposed row, so ownership checks are
// never scattered ad hoc across handlers.
package policy

import "workboard/models"

type Op int

const (
	OpRead Op = iota
	OpInsert
	OpUpdate
	OpDelete
)

type Table string

const (
	TableProjects        Table = "projects"
	TableTasks           Table = "tasks"
	TableCalendarNotes   Table = "calendar_notes"
	TableContentLogs     Table = "content_logs"
	TableLiveSessionLogs Table = "live_session_logs"
	TableTemplates       Table = "templates"
	TableActivityLogs    Table = "activity_logs"
)

// Principal is the authenticated identity a request executes under.
type Principal struct {
	ID   uint
	Role models.Role
}

func (p Principal) Admin() bool { return p.Role == models.RoleAdmin }

// Row is the normalized view of a table row the predicate needs: who owns
// it and, for tasks, who it is assigned to. For templates OwnerID is the
// uploader (zero when the uploader's account was deleted).
type Row struct {
	OwnerID    uint
	AssignedTo *uint
}

// Allows evaluates the predicate. The caller must pass the PERSISTED row as
// existing for read/update/delete and the incoming row as proposed for
// insert/update: on update both must pass (the using + with-check
// symmetry), so a write can neither touch a row the principal does not own
// nor reassign ownership to smuggle in access.
func Allows(p Principal, op Op, table Table, existing, proposed *Row) bool {
	if table == TableActivityLogs {
		switch op {
		case OpInsert:
			// Principals may only log their own activity, admins included.
			return proposed != nil && proposed.OwnerID == p.ID
		case OpRead:
			return p.Admin() || (existing != nil && existing.OwnerID == p.ID)
		default:
			// Append-only: no update or delete for any principal.
			return false
		}
	}

	switch op {
	case OpRead:
		if table == TableTemplates {
			return true
		}
		return writable(p, table, existing)
	case OpInsert:
		return writable(p, table, proposed)
	case OpUpdate:
		return writable(p, table, existing) && writable(p, table, proposed)
	case OpDelete:
		return writable(p, table, existing)
	}
	return false
}

func writable(p Principal, table Table, row *Row) bool {
	if row == nil {
		return false
	}
	if p.Admin() {
		return true
	}
	if row.OwnerID == p.ID {
		return true
	}
	if table == TableTasks && row.AssignedTo != nil && *row.AssignedTo == p.ID {
		return true
	}
	return false
}

// CanChangeRole gates role transitions, which sit outside the generic
// predicate: only admins change roles, and never their own — an admin
// targeting themself is rejected like anyone else.
func CanChangeRole(actor Principal, targetUserID uint) bool {
	return actor.Admin() && actor.ID != targetUserID
}
