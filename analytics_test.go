package main

import (
	"testing"
	"time"

	"workboard/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekKey(t *testing.T) {
	if got := weekKey(day("2026-08-31")); got != "2026-W36" {
		t.Errorf("weekKey = %s", got)
	}
	// ISO week years shift at the boundary: 2027-01-01 belongs to 2026-W53.
	if got := weekKey(day("2027-01-01")); got != "2026-W53" {
		t.Errorf("weekKey = %s", got)
	}
}

func TestBucketWeeklySumsAndSorts(t *testing.T) {
	content := []models.ContentLog{
		{Date: day("2026-08-03"), Count: 2},
		{Date: day("2026-08-05"), Count: 3},
		{Date: day("2026-08-12"), Count: 1},
	}
	live := []models.LiveSessionLog{
		{Date: day("2026-08-03"), Hours: 1.5},
		{Date: day("2026-08-03"), Hours: 2}, // second session, same day
	}
	completed := []models.Task{
		{UpdatedAt: day("2026-08-13")},
	}

	stats := bucketWeekly(content, live, completed)
	if len(stats) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(stats))
	}
	w1, w2 := stats[0], stats[1]
	if w1.Week != "2026-W32" || w2.Week != "2026-W33" {
		t.Fatalf("weeks out of order: %s, %s", w1.Week, w2.Week)
	}
	if w1.ContentCount != 5 || w2.ContentCount != 1 {
		t.Errorf("content counts: %d, %d", w1.ContentCount, w2.ContentCount)
	}
	if w1.LiveHours != 3.5 {
		t.Errorf("live hours not summed across same-day rows: %v", w1.LiveHours)
	}
	if w2.TasksCompleted != 1 {
		t.Errorf("tasks completed: %d", w2.TasksCompleted)
	}
}

func TestBucketWeeklyEmpty(t *testing.T) {
	if stats := bucketWeekly(nil, nil, nil); len(stats) != 0 {
		t.Errorf("expected no buckets, got %d", len(stats))
	}
}
