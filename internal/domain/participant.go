package domain

import "time"

// Participant is a connection that holds a vote in the ledger
type Participant struct {
	ID        string    `json:"id"`
	Ordinal   int       `json:"ordinal"`
	Nickname  string    `json:"nickname"`
	Team      Side      `json:"team"`
	Direction Direction `json:"direction"`
	ChangedAt time.Time `json:"changedAt"`
}

// NewParticipant creates a participant with no active vote
func NewParticipant(id string, ordinal int, nickname string, now time.Time) *Participant {
	return &Participant{
		ID:        id,
		Ordinal:   ordinal,
		Nickname:  nickname,
		Team:      TeamForOrdinal(ordinal),
		Direction: DirectionNone,
		ChangedAt: now,
	}
}

// HasVote returns true if the participant currently holds up or down
func (p *Participant) HasVote() bool {
	return p.Direction == DirectionUp || p.Direction == DirectionDown
}
