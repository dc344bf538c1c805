package app

import (
	"encoding/json"
	"log/slog"
	"sync"

	"crowdpong/internal/domain"
)

// Group is a named broadcast audience
type Group string

const (
	GroupPlayers     Group = "players"
	GroupDisplays    Group = "displays"
	GroupAdmins      Group = "admins"
	GroupDiagnostics Group = "diagnostics"
)

// Groups lists every broadcast group
var Groups = []Group{GroupPlayers, GroupDisplays, GroupAdmins, GroupDiagnostics}

// ClientConnection represents a connected client
type ClientConnection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// observers are the groups that render the court and the crowd
var observers = []Group{GroupDisplays, GroupAdmins, GroupDiagnostics}

// audience lists the groups that receive each broadcast event type.
// Types not listed go to every group.
var audience = map[domain.EventType][]Group{
	domain.EventVoteCast:     observers,
	domain.EventVoteReleased: observers,
	domain.EventPaddleHit:    observers,
	domain.EventFocusChanged: observers,
}

// shape selects how much of an event a group may see
type shape int

const (
	shapePublic shape = iota // no connection ids
	shapeFull
)

func shapeFor(g Group) shape {
	if g == GroupAdmins || g == GroupDiagnostics {
		return shapeFull
	}
	return shapePublic
}

// Hub fans match events out to the connected clients of each group
type Hub struct {
	mu      sync.RWMutex
	clients map[string]ClientConnection
	groups  map[Group]map[string]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	groups := make(map[Group]map[string]struct{}, len(Groups))
	for _, g := range Groups {
		groups[g] = make(map[string]struct{})
	}
	return &Hub{
		clients: make(map[string]ClientConnection),
		groups:  groups,
		logger:  logger,
	}
}

// Register adds a client to a group. A client may belong to several groups.
func (h *Hub) Register(group Group, client ClientConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		h.logger.Warn("unknown broadcast group", "group", group)
		return
	}
	h.clients[client.ID()] = client
	members[client.ID()] = struct{}{}
}

// Unregister removes a client from every group
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, clientID)
	for _, members := range h.groups {
		delete(members, clientID)
	}
}

// Count returns the number of clients in a group
func (h *Hub) Count(group Group) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// InGroup reports whether a client belongs to a group
func (h *Hub) InGroup(group Group, clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.groups[group][clientID]
	return ok
}

// Publish delivers an event. Client-addressed events go to that client only;
// the rest go to their audience groups, encoded once per shape.
func (h *Hub) Publish(event *domain.GameEvent) {
	if event.ClientID != "" {
		h.sendTo(event)
		return
	}

	targets, ok := audience[event.Type]
	if !ok {
		targets = Groups
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	var encoded [2][]byte
	for _, g := range targets {
		if len(h.groups[g]) == 0 {
			continue
		}
		sh := shapeFor(g)
		if encoded[sh] == nil {
			data, err := encode(event, sh)
			if err != nil {
				h.logger.Error("failed to encode event", "type", event.Type, "error", err)
				return
			}
			encoded[sh] = data
		}
		for id := range h.groups[g] {
			if err := h.clients[id].Send(encoded[sh]); err != nil {
				h.logger.Debug("failed to send to client", "clientID", id, "error", err)
			}
		}
	}
}

func (h *Hub) sendTo(event *domain.GameEvent) {
	h.mu.RLock()
	client, ok := h.clients[event.ClientID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := encode(event, shapeFull)
	if err != nil {
		h.logger.Error("failed to encode event", "type", event.Type, "error", err)
		return
	}
	if err := client.Send(data); err != nil {
		h.logger.Debug("failed to send to client", "clientID", event.ClientID, "error", err)
	}
}

// Close closes every client connection and empties the groups
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.Close()
	}
	h.clients = make(map[string]ClientConnection)
	for g := range h.groups {
		h.groups[g] = make(map[string]struct{})
	}
}

func encode(event *domain.GameEvent, sh shape) ([]byte, error) {
	if sh == shapePublic {
		shaped := *event
		shaped.Payload = publicPayload(event.Payload)
		event = &shaped
	}
	return json.Marshal(event)
}

// publicPayload strips connection ids from payloads that carry them
func publicPayload(payload interface{}) interface{} {
	switch p := payload.(type) {
	case *domain.VotePayload:
		c := *p
		c.ClientID = ""
		return &c
	case *domain.PlayerPayload:
		c := *p
		c.ClientID = ""
		return &c
	}
	return payload
}
