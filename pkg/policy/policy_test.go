package policy

import (
	"testing"

	"workboard/models"
)

var (
	owner    = Principal{ID: 1, Role: models.RoleUser}
	assignee = Principal{ID: 2, Role: models.RoleUser}
	stranger = Principal{ID: 3, Role: models.RoleUser}
	admin    = Principal{ID: 9, Role: models.RoleAdmin}
)

func ownedRow() *Row { return &Row{OwnerID: owner.ID} }

func assignedTask() *Row {
	aid := assignee.ID
	return &Row{OwnerID: owner.ID, AssignedTo: &aid}
}

func TestReadOwnedTables(t *testing.T) {
	for _, table := range []Table{TableProjects, TableCalendarNotes, TableContentLogs, TableLiveSessionLogs} {
		row := ownedRow()
		if !Allows(owner, OpRead, table, row, nil) {
			t.Errorf("%s: owner read denied", table)
		}
		if !Allows(admin, OpRead, table, row, nil) {
			t.Errorf("%s: admin read denied", table)
		}
		if Allows(stranger, OpRead, table, row, nil) {
			t.Errorf("%s: stranger read allowed", table)
		}
	}
}

func TestTaskAssigneeAccess(t *testing.T) {
	row := assignedTask()
	if !Allows(assignee, OpRead, TableTasks, row, nil) {
		t.Error("assignee read denied")
	}
	if !Allows(assignee, OpUpdate, TableTasks, row, row) {
		t.Error("assignee update denied")
	}
	if Allows(stranger, OpRead, TableTasks, row, nil) {
		t.Error("stranger read allowed")
	}
	// Assignee grant applies to tasks only.
	if Allows(assignee, OpRead, TableProjects, row, nil) {
		t.Error("assignee grant leaked into projects")
	}
}

func TestTemplatesReadableByAnyone(t *testing.T) {
	row := ownedRow()
	for _, p := range []Principal{owner, assignee, stranger, admin} {
		if !Allows(p, OpRead, TableTemplates, row, nil) {
			t.Errorf("principal %d: template read denied", p.ID)
		}
	}
	if Allows(stranger, OpUpdate, TableTemplates, row, row) {
		t.Error("non-uploader template update allowed")
	}
	if !Allows(admin, OpDelete, TableTemplates, row, nil) {
		t.Error("admin template delete denied")
	}
	// Orphaned template (uploader account deleted): only admins may write.
	orphan := &Row{OwnerID: 0}
	if Allows(owner, OpUpdate, TableTemplates, orphan, orphan) {
		t.Error("non-admin write to orphaned template allowed")
	}
}

func TestUpdateChecksBothRows(t *testing.T) {
	existing := ownedRow()
	// Proposed row reassigns ownership to the stranger. The owner may do
	// that (both rows pass for them), but the stranger must not be able to
	// grant themselves access by forging the owner field.
	forged := &Row{OwnerID: stranger.ID}
	if Allows(stranger, OpUpdate, TableProjects, existing, forged) {
		t.Error("stranger granted access via forged owner")
	}
	if !Allows(owner, OpUpdate, TableProjects, existing, existing) {
		t.Error("owner update denied")
	}
	if Allows(owner, OpUpdate, TableProjects, existing, forged) {
		t.Error("owner allowed to hand off ownership to a row it then cannot touch... expected deny under symmetry")
	}
	if !Allows(admin, OpUpdate, TableProjects, existing, forged) {
		t.Error("admin update denied")
	}
}

func TestActivityLogRules(t *testing.T) {
	own := &Row{OwnerID: owner.ID}
	other := &Row{OwnerID: stranger.ID}

	if !Allows(owner, OpInsert, TableActivityLogs, nil, own) {
		t.Error("own activity insert denied")
	}
	if Allows(owner, OpInsert, TableActivityLogs, nil, other) {
		t.Error("insert for another principal allowed")
	}
	// Even admins only log their own activity.
	if Allows(admin, OpInsert, TableActivityLogs, nil, other) {
		t.Error("admin insert for another principal allowed")
	}
	if !Allows(admin, OpRead, TableActivityLogs, other, nil) {
		t.Error("admin activity read denied")
	}
	if Allows(stranger, OpRead, TableActivityLogs, own, nil) {
		t.Error("stranger activity read allowed")
	}
	// Append-only for everyone.
	for _, p := range []Principal{owner, admin} {
		if Allows(p, OpUpdate, TableActivityLogs, own, own) {
			t.Errorf("principal %d: activity update allowed", p.ID)
		}
		if Allows(p, OpDelete, TableActivityLogs, own, nil) {
			t.Errorf("principal %d: activity delete allowed", p.ID)
		}
	}
}

func TestCanChangeRole(t *testing.T) {
	if !CanChangeRole(admin, stranger.ID) {
		t.Error("admin role change on another principal denied")
	}
	if CanChangeRole(owner, stranger.ID) {
		t.Error("non-admin role change allowed")
	}
	// Self-change is rejected even for admins.
	if CanChangeRole(admin, admin.ID) {
		t.Error("admin self role change allowed")
	}
}

func TestNilRows(t *testing.T) {
	if Allows(owner, OpUpdate, TableProjects, nil, ownedRow()) {
		t.Error("update without persisted row allowed")
	}
	if Allows(owner, OpInsert, TableProjects, nil, nil) {
		t.Error("insert without proposed row allowed")
	}
}
