package domain

import "time"

// Tally is the running up/down vote count for one paddle
type Tally struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// Total returns the number of votes held for the paddle
func (t Tally) Total() int {
	return t.Up + t.Down
}

// Ratios returns the up and down shares of the total, or zeros without votes
func (t Tally) Ratios() (up, down float64) {
	total := t.Total()
	if total == 0 {
		return 0, 0
	}
	return float64(t.Up) / float64(total), float64(t.Down) / float64(total)
}

func (t *Tally) apply(dir Direction, delta int) {
	switch dir {
	case DirectionUp:
		t.Up += delta
	case DirectionDown:
		t.Down += delta
	}
}

// Ledger tracks every participant's held vote and the per-paddle tallies.
// Tallies are maintained incrementally; only ClearVotes and ResetAll touch
// every participant.
type Ledger struct {
	participants map[string]*Participant
	tallies      [2]Tally
	nextOrdinal  int
	topology     Topology
	now          func() time.Time
}

// NewLedger creates an empty ledger for the given topology
func NewLedger(topology Topology) *Ledger {
	return &Ledger{
		participants: make(map[string]*Participant),
		nextOrdinal:  1,
		topology:     topology,
		now:          time.Now,
	}
}

// Topology returns the contribution rule currently in force
func (l *Ledger) Topology() Topology {
	return l.topology
}

// SetTopology switches the contribution rule. Held votes are cleared so the
// tallies stay consistent with the new rule.
func (l *Ledger) SetTopology(topology Topology) {
	if topology == l.topology {
		return
	}
	l.ClearVotes()
	l.topology = topology
}

// Add registers a participant and assigns the next ordinal. Adding an id that
// is already present returns the existing record.
func (l *Ledger) Add(id, nickname string) *Participant {
	if p, ok := l.participants[id]; ok {
		return p
	}
	p := NewParticipant(id, l.nextOrdinal, nickname, l.now())
	l.nextOrdinal++
	l.participants[id] = p
	return p
}

// Get returns a participant by connection id
func (l *Ledger) Get(id string) (*Participant, error) {
	p, ok := l.participants[id]
	if !ok {
		return nil, ErrUnknownParticipant
	}
	return p, nil
}

// Cast records a participant's vote, replacing any previous one. It reports
// whether the held direction changed.
func (l *Ledger) Cast(id string, dir Direction) (bool, error) {
	if dir != DirectionUp && dir != DirectionDown {
		return false, ErrInvalidDirection
	}
	p, ok := l.participants[id]
	if !ok {
		return false, ErrUnknownParticipant
	}
	if p.Direction == dir {
		return false, nil
	}
	l.contribute(p, -1)
	p.Direction = dir
	p.ChangedAt = l.now()
	l.contribute(p, 1)
	return true, nil
}

// Release retracts a participant's vote. It reports whether a vote was held.
func (l *Ledger) Release(id string) (bool, error) {
	p, ok := l.participants[id]
	if !ok {
		return false, ErrUnknownParticipant
	}
	if !p.HasVote() {
		return false, nil
	}
	l.contribute(p, -1)
	p.Direction = DirectionNone
	p.ChangedAt = l.now()
	return true, nil
}

// Remove retracts any held vote and forgets the participant
func (l *Ledger) Remove(id string) (*Participant, error) {
	p, ok := l.participants[id]
	if !ok {
		return nil, ErrUnknownParticipant
	}
	l.contribute(p, -1)
	delete(l.participants, id)
	return p, nil
}

// ClearVotes releases every held vote and zeroes the tallies
func (l *Ledger) ClearVotes() {
	now := l.now()
	for _, p := range l.participants {
		if p.HasVote() {
			p.Direction = DirectionNone
			p.ChangedAt = now
		}
	}
	l.tallies = [2]Tally{}
}

// ResetAll forgets every participant; ordinals start again at 1
func (l *Ledger) ResetAll() {
	l.participants = make(map[string]*Participant)
	l.tallies = [2]Tally{}
	l.nextOrdinal = 1
}

// Tally returns the up/down counts for a paddle
func (l *Ledger) Tally(side Side) Tally {
	return l.tallies[side]
}

// Tallies returns both paddles' counts indexed by Side
func (l *Ledger) Tallies() [2]Tally {
	return l.tallies
}

// Count returns the number of registered participants
func (l *Ledger) Count() int {
	return len(l.participants)
}

// contribute adds (delta = 1) or retracts (delta = -1) a participant's
// current direction on every paddle it drives.
func (l *Ledger) contribute(p *Participant, delta int) {
	if !p.HasVote() {
		return
	}
	switch l.topology {
	case TopologyFixedTeam:
		l.tallies[p.Team].apply(p.Direction, delta)
	default:
		l.tallies[SideLeft].apply(p.Direction, delta)
		l.tallies[SideRight].apply(p.Direction, delta)
	}
}
