package main

import (
	"testing"
	"time"

	"workboard/models"
)

func TestTaskRecords(t *testing.T) {
	due := day("2026-09-01")
	pid := uint(7)
	assignee := uint(2)
	tasks := []models.Task{
		{ID: 1, Title: "Design", ProjectID: &pid, DueDate: &due, Status: models.StatusOngoing, Progress: 50, AssignedTo: &assignee},
		{ID: 2, Title: "Ship", Status: models.StatusNotStarted},
	}
	header, rows := taskRecords(tasks)
	if len(header) != 7 || len(rows) != 2 {
		t.Fatalf("unexpected shape: %d cols, %d rows", len(header), len(rows))
	}
	want := []string{"1", "Design", "7", "2026-09-01", "ongoing", "50", "2"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("row[0][%d] = %q, want %q", i, rows[0][i], cell)
		}
	}
	// Nullable fields render empty, not "0".
	if rows[1][2] != "" || rows[1][3] != "" || rows[1][6] != "" {
		t.Errorf("nullable columns not empty: %v", rows[1])
	}
}

func TestLiveRecordsFloatFormat(t *testing.T) {
	logs := []models.LiveSessionLog{{ID: 3, Host: "Ana", Date: day("2026-08-03"), Hours: 2.5}}
	_, rows := liveRecords(logs)
	if rows[0][3] != "2.5" {
		t.Errorf("hours = %q", rows[0][3])
	}
}

func TestFmtDate(t *testing.T) {
	if fmtDate(nil) != "" {
		t.Error("nil date should render empty")
	}
	d := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if fmtDate(&d) != "2026-01-02" {
		t.Errorf("fmtDate = %s", fmtDate(&d))
	}
}
