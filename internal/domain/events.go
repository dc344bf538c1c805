package domain

import "time"

// EventType represents the type of match event. The value is the wire name.
type EventType string

const (
	EventState        EventType = "state"
	EventJoined       EventType = "joined"
	EventPlayerJoined EventType = "playerJoined"
	EventPlayerLeft   EventType = "playerLeft"
	EventPlayersReset EventType = "playersReset"
	EventVoteCast     EventType = "voteCast"
	EventVoteReleased EventType = "voteReleased"
	EventStarted      EventType = "started"
	EventPaused       EventType = "paused"
	EventResumed      EventType = "resumed"
	EventReset        EventType = "reset"
	EventPaddleHit    EventType = "paddleHit"
	EventGoal         EventType = "goal"
	EventScored       EventType = "scored"
	EventRound        EventType = "round"
	EventFocusChanged EventType = "focusChanged"
	EventFinished     EventType = "finished"
)

// GameEvent represents something that happened in the match
type GameEvent struct {
	Type      EventType   `json:"type"`
	ClientID  string      `json:"-"` // If event targets a single connection
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new match event
func NewEvent(eventType EventType, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewClientEvent creates an event addressed to one connection
func NewClientEvent(eventType EventType, clientID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		ClientID:  clientID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// JoinedPayload is the direct reply to a join
type JoinedPayload struct {
	Ordinal  int      `json:"ordinal"`
	Nickname string   `json:"nickname"`
	Side     Side     `json:"side"`
	Status   Status   `json:"status"`
	Topology Topology `json:"topology"`
}

// PlayerPayload is sent when a participant joins or leaves
type PlayerPayload struct {
	ClientID    string `json:"clientId,omitempty"`
	Ordinal     int    `json:"ordinal"`
	Nickname    string `json:"nickname"`
	Side        Side   `json:"side"`
	PlayerCount int    `json:"playerCount"`
}

// VotePayload is sent when a participant casts or releases a vote
type VotePayload struct {
	ClientID  string    `json:"clientId,omitempty"`
	Ordinal   int       `json:"ordinal"`
	Nickname  string    `json:"nickname"`
	Direction Direction `json:"direction"`
	Left      Tally     `json:"left"`
	Right     Tally     `json:"right"`
}

// LifecyclePayload is sent on start, pause, resume and reset
type LifecyclePayload struct {
	Status   Status   `json:"status"`
	Topology Topology `json:"topology"`
	Score    Score    `json:"score"`
}

// PaddleHitPayload is sent when the ball bounces off a paddle
type PaddleHitPayload struct {
	Side Side `json:"side"`
}

// GoalPayload is sent when the ball leaves the court
type GoalPayload struct {
	Side Side `json:"side"`
}

// ScoredPayload is sent after a goal with the updated score
type ScoredPayload struct {
	Side  Side  `json:"side"`
	Score Score `json:"score"`
}

// RoundPayload is sent when a new round is served
type RoundPayload struct {
	Round     int     `json:"round"`
	BallSpeed float64 `json:"ballSpeed"`
	ServeTo   Side    `json:"serveTo"`
}

// FocusPayload is sent when the movable paddle changes under ball-tracking
type FocusPayload struct {
	Side Side `json:"side"`
}

// FinishedPayload is sent when a side reaches the winning score
type FinishedPayload struct {
	Winner Side  `json:"winner"`
	Score  Score `json:"score"`
}
