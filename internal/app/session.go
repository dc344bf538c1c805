package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"crowdpong/internal/domain"
)

// ErrSessionClosed is returned when a command reaches a session that has stopped
var ErrSessionClosed = errors.New("session closed")

// ErrUnknownAction is returned for an admin command the session does not know
var ErrUnknownAction = errors.New("unknown admin action")

const (
	inboxSize  = 1024
	eventsSize = 512
)

// AdminAction is a lifecycle command accepted from admins
type AdminAction string

const (
	ActionStart        AdminAction = "start"
	ActionPause        AdminAction = "pause"
	ActionResume       AdminAction = "resume"
	ActionReset        AdminAction = "reset"
	ActionResetPlayers AdminAction = "resetPlayers"
)

// StatusInfo is the summary served by the HTTP state endpoint
type StatusInfo struct {
	Status      domain.Status `json:"status"`
	Score       domain.Score  `json:"score"`
	PlayerCount int           `json:"playerCount"`
}

// Commands posted to the session inbox

type joinCmd struct {
	client   ClientConnection
	nickname string
	reply    chan domain.JoinedPayload
}

type inputCmd struct {
	clientID  string
	direction domain.Direction
}

type releaseCmd struct {
	clientID string
}

type leaveCmd struct {
	clientID string
}

type adminCmd struct {
	action   AdminAction
	topology domain.Topology
	reply    chan error
}

type observeCmd struct {
	group  Group
	client ClientConnection
	reply  chan struct{}
}

type statusCmd struct {
	reply chan StatusInfo
}

// Session is the match actor. Run owns the match: every command and every
// tick is handled on that one goroutine, so the match needs no locks.
type Session struct {
	match  *domain.Match
	hub    *Hub
	driver *LoopDriver
	inbox  chan any
	logger *slog.Logger

	// Event channel for broadcasting
	events    chan *domain.GameEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session around a match
func NewSession(match *domain.Match, hub *Hub, driver *LoopDriver, logger *slog.Logger) *Session {
	session := &Session{
		match:  match,
		hub:    hub,
		driver: driver,
		inbox:  make(chan any, inboxSize),
		logger: logger,
		events: make(chan *domain.GameEvent, eventsSize),
		done:   make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// Run processes commands and ticks until ctx is cancelled or Close is called
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	defer s.driver.Stop()

	s.logger.Info("match session started", "topology", s.match.Topology())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case cmd := <-s.inbox:
			s.handle(cmd)
		case <-s.driver.C():
			s.tick()
		}
	}
}

// Close stops the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Join registers the client as a participant and returns its assignment
func (s *Session) Join(ctx context.Context, client ClientConnection, nickname string) (domain.JoinedPayload, error) {
	reply := make(chan domain.JoinedPayload, 1)
	if err := s.submit(ctx, joinCmd{client: client, nickname: nickname, reply: reply}); err != nil {
		return domain.JoinedPayload{}, err
	}
	select {
	case joined := <-reply:
		return joined, nil
	case <-s.done:
		return domain.JoinedPayload{}, ErrSessionClosed
	case <-ctx.Done():
		return domain.JoinedPayload{}, ctx.Err()
	}
}

// Input records a held direction for a participant
func (s *Session) Input(ctx context.Context, clientID string, dir domain.Direction) error {
	return s.submit(ctx, inputCmd{clientID: clientID, direction: dir})
}

// Release retracts a participant's vote
func (s *Session) Release(ctx context.Context, clientID string) error {
	return s.submit(ctx, releaseCmd{clientID: clientID})
}

// Leave drops a connection from the ledger and from every broadcast group
func (s *Session) Leave(ctx context.Context, clientID string) error {
	return s.submit(ctx, leaveCmd{clientID: clientID})
}

// Observe adds a client to a broadcast group and sends it the current state
func (s *Session) Observe(ctx context.Context, group Group, client ClientConnection) error {
	reply := make(chan struct{}, 1)
	if err := s.submit(ctx, observeCmd{group: group, client: client, reply: reply}); err != nil {
		return err
	}
	return s.wait(ctx, reply)
}

// Admin applies a lifecycle command. The topology only applies to start.
func (s *Session) Admin(ctx context.Context, action AdminAction, topology domain.Topology) error {
	reply := make(chan error, 1)
	if err := s.submit(ctx, adminCmd{action: action, topology: topology, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the match status, score and player count
func (s *Session) Status(ctx context.Context) (StatusInfo, error) {
	reply := make(chan StatusInfo, 1)
	if err := s.submit(ctx, statusCmd{reply: reply}); err != nil {
		return StatusInfo{}, err
	}
	select {
	case info := <-reply:
		return info, nil
	case <-s.done:
		return StatusInfo{}, ErrSessionClosed
	case <-ctx.Done():
		return StatusInfo{}, ctx.Err()
	}
}

func (s *Session) submit(ctx context.Context, cmd any) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.inbox <- cmd:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) wait(ctx context.Context, reply <-chan struct{}) error {
	select {
	case <-reply:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handle applies one command to the match and flushes the events it produced
func (s *Session) handle(cmd any) {
	switch c := cmd.(type) {
	case joinCmd:
		s.hub.Register(GroupPlayers, c.client)
		joined := s.match.Join(c.client.ID(), CleanNickname(c.nickname))
		s.logger.Info("player joined", "clientID", c.client.ID(), "ordinal", joined.Ordinal, "players", s.match.PlayerCount())
		c.reply <- joined

	case inputCmd:
		if err := s.match.Input(c.clientID, c.direction); err != nil {
			s.logger.Debug("input ignored", "clientID", c.clientID, "error", err)
		}

	case releaseCmd:
		if err := s.match.Release(c.clientID); err != nil {
			s.logger.Debug("release ignored", "clientID", c.clientID, "error", err)
		}

	case leaveCmd:
		s.hub.Unregister(c.clientID)
		if err := s.match.Leave(c.clientID); err == nil {
			s.logger.Info("player left", "clientID", c.clientID, "players", s.match.PlayerCount())
		}

	case observeCmd:
		s.hub.Register(c.group, c.client)
		s.queueEvent(domain.NewClientEvent(domain.EventState, c.client.ID(), s.match.Snapshot()))
		s.logger.Info("observer joined", "clientID", c.client.ID(), "group", c.group)
		c.reply <- struct{}{}

	case adminCmd:
		c.reply <- s.applyAdmin(c.action, c.topology)

	case statusCmd:
		c.reply <- StatusInfo{
			Status:      s.match.Status(),
			Score:       s.match.Score(),
			PlayerCount: s.match.PlayerCount(),
		}

	default:
		s.logger.Warn("unknown session command", "command", cmd)
	}

	s.flush()
}

// applyAdmin runs a lifecycle command and keeps the loop driver in step with
// the match: it runs while playing or paused and stops otherwise.
func (s *Session) applyAdmin(action AdminAction, topology domain.Topology) error {
	var err error
	switch action {
	case ActionStart:
		err = s.match.Start(topology)
	case ActionPause:
		err = s.match.Pause()
	case ActionResume:
		err = s.match.Resume()
	case ActionReset:
		s.match.Reset()
	case ActionResetPlayers:
		s.match.ResetPlayers()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err != nil {
		s.logger.Debug("admin command rejected", "action", action, "error", err)
		return err
	}

	switch {
	case action == ActionStart:
		s.driver.Start()
	case !s.match.Status().Active():
		s.driver.Stop()
	}

	s.logger.Info("admin command applied", "action", action, "status", s.match.Status(), "topology", s.match.Topology())
	s.flush()
	s.queueEvent(domain.NewEvent(domain.EventState, s.match.Snapshot()))
	return nil
}

// tick advances the match by one step and broadcasts the new state
func (s *Session) tick() {
	if s.match.Status() != domain.StatusPlaying {
		return
	}

	if err := s.match.Step(); err != nil {
		s.logger.Error("tick failed", "tick", s.match.Tick(), "error", err)
	}

	s.flush()
	s.queueEvent(domain.NewEvent(domain.EventState, s.match.Snapshot()))

	if s.match.Status() == domain.StatusFinished {
		s.driver.Stop()
		s.logger.Info("match finished", "score", s.match.Score())
	}
}

// flush queues the match's pending events in emission order
func (s *Session) flush() {
	for _, event := range s.match.DrainEvents() {
		s.queueEvent(event)
	}
}

// queueEvent adds an event to the broadcast queue
func (s *Session) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.hub.Publish(event)
		}
	}
}
