package models

import "testing"

func TestStatusForProgress(t *testing.T) {
	cases := []struct {
		progress int
		want     Status
	}{
		{0, StatusNotStarted},
		{25, StatusOngoing},
		{50, StatusOngoing},
		{75, StatusOngoing},
		{100, StatusCompleted},
	}
	for _, tc := range cases {
		if got := StatusForProgress(tc.progress); got != tc.want {
			t.Errorf("StatusForProgress(%d) = %s, want %s", tc.progress, got, tc.want)
		}
	}
}

func TestStatusForProgressClamps(t *testing.T) {
	// Out-of-range values degrade to the nearest endpoint rather than
	// producing an invalid status.
	if got := StatusForProgress(-5); got != StatusNotStarted {
		t.Errorf("StatusForProgress(-5) = %s", got)
	}
	if got := StatusForProgress(150); got != StatusCompleted {
		t.Errorf("StatusForProgress(150) = %s", got)
	}
}

func TestEnumValidation(t *testing.T) {
	if !StatusOngoing.Valid() || Status("paused").Valid() {
		t.Error("status validation broken")
	}
	if !RoleAdmin.Valid() || Role("owner").Valid() {
		t.Error("role validation broken")
	}
	if !CategoryDaily.Valid() || TemplateCategory("misc").Valid() {
		t.Error("category validation broken")
	}
}
