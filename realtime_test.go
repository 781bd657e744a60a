package main

import (
	"context"
	"testing"

	"workboard/models"
	"workboard/pkg/policy"
)

func drain(ch chan ChangeEvent) []ChangeEvent {
	var out []ChangeEvent
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestHubFiltersByOwnership(t *testing.T) {
	h := newHub(nil)
	owner := h.subscribe(policy.Principal{ID: 1, Role: models.RoleUser}, nil)
	stranger := h.subscribe(policy.Principal{ID: 2, Role: models.RoleUser}, nil)
	admin := h.subscribe(policy.Principal{ID: 9, Role: models.RoleAdmin}, nil)
	defer h.unsubscribe(owner)
	defer h.unsubscribe(stranger)
	defer h.unsubscribe(admin)

	h.publish(context.Background(), ChangeEvent{Table: "projects", ID: 5, Action: "updated", OwnerID: 1})

	if got := drain(owner.ch); len(got) != 1 || got[0].ID != 5 {
		t.Errorf("owner events = %v", got)
	}
	if got := drain(stranger.ch); len(got) != 0 {
		t.Errorf("stranger received %v", got)
	}
	if got := drain(admin.ch); len(got) != 1 {
		t.Errorf("admin events = %v", got)
	}
}

func TestHubAssigneeSeesTaskEvents(t *testing.T) {
	h := newHub(nil)
	assignee := h.subscribe(policy.Principal{ID: 2, Role: models.RoleUser}, nil)
	defer h.unsubscribe(assignee)

	aid := uint(2)
	h.publish(context.Background(), ChangeEvent{Table: "tasks", ID: 1, Action: "updated", OwnerID: 1, AssignedTo: &aid})
	if got := drain(assignee.ch); len(got) != 1 {
		t.Errorf("assignee events = %v", got)
	}
}

func TestHubTemplateEventsReachEveryone(t *testing.T) {
	h := newHub(nil)
	s := h.subscribe(policy.Principal{ID: 42, Role: models.RoleUser}, nil)
	defer h.unsubscribe(s)

	h.publish(context.Background(), ChangeEvent{Table: "templates", ID: 3, Action: "created", OwnerID: 1})
	if got := drain(s.ch); len(got) != 1 {
		t.Errorf("template events = %v", got)
	}
}

func TestHubTableFilter(t *testing.T) {
	h := newHub(nil)
	s := h.subscribe(policy.Principal{ID: 1, Role: models.RoleUser}, []string{"tasks"})
	defer h.unsubscribe(s)

	h.publish(context.Background(), ChangeEvent{Table: "projects", ID: 1, Action: "created", OwnerID: 1})
	h.publish(context.Background(), ChangeEvent{Table: "tasks", ID: 2, Action: "created", OwnerID: 1})
	got := drain(s.ch)
	if len(got) != 1 || got[0].Table != "tasks" {
		t.Errorf("filtered events = %v", got)
	}
}

func TestHubDropsOnSlowConsumer(t *testing.T) {
	h := newHub(nil)
	s := h.subscribe(policy.Principal{ID: 1, Role: models.RoleUser}, nil)
	defer h.unsubscribe(s)

	// Fill past the buffer; publish must not block.
	for i := 0; i < 50; i++ {
		h.publish(context.Background(), ChangeEvent{Table: "projects", ID: uint(i), Action: "updated", OwnerID: 1})
	}
	if got := drain(s.ch); len(got) != cap(s.ch) {
		t.Errorf("expected %d buffered events, got %d", cap(s.ch), len(got))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := newHub(nil)
	s := h.subscribe(policy.Principal{ID: 1, Role: models.RoleUser}, nil)
	h.unsubscribe(s)
	h.publish(context.Background(), ChangeEvent{Table: "projects", ID: 1, Action: "deleted", OwnerID: 1})
	if got := drain(s.ch); len(got) != 0 {
		t.Errorf("received after unsubscribe: %v", got)
	}
}
