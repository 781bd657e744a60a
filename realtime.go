package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"workboard/pkg/policy"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const changeChannel = "workboard:changes"

// ChangeEvent is an invalidation signal, not a row payload: it tells
// subscribers which key in which table changed so they can decide what to
// refetch. Owner/assignee ride along for fan-out filtering only.
type ChangeEvent struct {
	Table      string `json:"table"`
	ID         uint   `json:"id"`
	Action     string `json:"action"` // created / updated / deleted
	OwnerID    uint   `json:"owner_id,omitempty"`
	AssignedTo *uint  `json:"assigned_to,omitempty"`
}

// visibleTo mirrors the read side of the policy predicate: owners and
// assignees see their rows, admins see everything, template events reach
// every principal.
func (ev ChangeEvent) visibleTo(p policy.Principal) bool {
	if p.Admin() || ev.Table == string(policy.TableTemplates) {
		return true
	}
	if ev.OwnerID == p.ID {
		return true
	}
	return ev.AssignedTo != nil && *ev.AssignedTo == p.ID
}

type subscriber struct {
	principal policy.Principal
	tables    map[string]bool // empty means all tables
	ch        chan ChangeEvent
}

func (s *subscriber) wants(ev ChangeEvent) bool {
	if len(s.tables) > 0 && !s.tables[ev.Table] {
		return false
	}
	return ev.visibleTo(s.principal)
}

// hub fans change events out to SSE subscribers. With Redis configured,
// publishes go through pub/sub so every instance (including the publisher)
// rebroadcasts locally; without Redis it degrades to in-process delivery.
type hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
	rdb  *redis.Client
}

func newHub(rdb *redis.Client) *hub {
	return &hub{subs: make(map[*subscriber]struct{}), rdb: rdb}
}

func (h *hub) publish(ctx context.Context, ev ChangeEvent) {
	if h.rdb != nil {
		payload, err := json.Marshal(ev)
		if err == nil {
			if err := h.rdb.Publish(ctx, changeChannel, payload).Err(); err == nil {
				return
			}
			logger.Warnw("redis publish failed, delivering locally", "table", ev.Table)
		}
	}
	h.broadcast(ev)
}

func (h *hub) broadcast(ev ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if !s.wants(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			// Slow consumer: drop. The event is only an invalidation hint
			// and the client refetches on the next one.
		}
	}
}

// run consumes the Redis channel and rebroadcasts locally. Returns when ctx
// is cancelled. No-op without Redis.
func (h *hub) run(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	sub := h.rdb.Subscribe(ctx, changeChannel)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warnw("bad change event payload", "error", err)
				continue
			}
			h.broadcast(ev)
		}
	}
}

func (h *hub) subscribe(p policy.Principal, tables []string) *subscriber {
	s := &subscriber{principal: p, tables: make(map[string]bool), ch: make(chan ChangeEvent, 16)}
	for _, t := range tables {
		if t = strings.TrimSpace(t); t != "" {
			s.tables[t] = true
		}
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

var events *hub

// eventsHandler streams change events over SSE. One subscription per
// connection, filtered by ?tables=a,b and torn down when the client goes.
func eventsHandler(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tables []string
	if raw := c.Query("tables"); raw != "" {
		tables = strings.Split(raw, ",")
	}
	sub := events.subscribe(p, tables)
	defer events.unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-sub.ch:
			c.SSEvent("change", gin.H{"table": ev.Table, "id": ev.ID, "action": ev.Action})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
