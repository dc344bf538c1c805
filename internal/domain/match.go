package domain

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Score holds both sides' goals
type Score struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Of returns one side's goals
func (s Score) Of(side Side) int {
	if side == SideRight {
		return s.Right
	}
	return s.Left
}

// Behind returns the side with fewer goals; a tie serves to the right
func (s Score) Behind() Side {
	if s.Left < s.Right {
		return SideLeft
	}
	return SideRight
}

func (s *Score) add(side Side) int {
	if side == SideRight {
		s.Right++
		return s.Right
	}
	s.Left++
	return s.Left
}

// Match is the single owned aggregate of one game: ball, paddles, ledger,
// score and lifecycle. It is not safe for concurrent use; one goroutine owns it.
type Match struct {
	settings  Settings
	physics   Physics
	ledger    *Ledger
	inputs    *InputLog
	rng       *rand.Rand
	status    Status
	score     Score
	round     int
	ballSpeed float64
	ball      Ball
	paddles   [2]Paddle
	focus     Side
	tick      uint64
	serve     ServeTimer
	outbox    []*GameEvent
}

// NewMatch creates a match in the waiting status
func NewMatch(settings Settings, rng *rand.Rand) (*Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := &Match{
		settings: settings,
		physics:  NewPhysics(settings),
		ledger:   NewLedger(settings.Topology),
		inputs:   NewInputLog(settings.InputLogSize),
		rng:      rng,
		status:   StatusWaiting,
		paddles:  [2]Paddle{{Side: SideLeft}, {Side: SideRight}},
	}
	m.resetField()
	return m, nil
}

// Settings returns the match settings
func (m *Match) Settings() Settings {
	return m.settings
}

// Status returns the current lifecycle status
func (m *Match) Status() Status {
	return m.status
}

// Score returns the current score
func (m *Match) Score() Score {
	return m.score
}

// Round returns the current round number
func (m *Match) Round() int {
	return m.round
}

// BallSpeed returns the speed scalar used for serves and deflections
func (m *Match) BallSpeed() float64 {
	return m.ballSpeed
}

// Ball returns a copy of the ball
func (m *Match) Ball() Ball {
	return m.ball
}

// Paddle returns a copy of one paddle
func (m *Match) Paddle(side Side) Paddle {
	return m.paddles[side]
}

// Topology returns the control topology in force
func (m *Match) Topology() Topology {
	return m.ledger.Topology()
}

// Focus returns the paddle that moves under ball-tracking
func (m *Match) Focus() Side {
	return m.focus
}

// Tally returns a paddle's vote counts
func (m *Match) Tally(side Side) Tally {
	return m.ledger.Tally(side)
}

// PlayerCount returns the number of participants in the ledger
func (m *Match) PlayerCount() int {
	return m.ledger.Count()
}

// ServePending reports whether a round reset is scheduled
func (m *Match) ServePending() bool {
	return m.serve.Pending()
}

// Tick returns the number of simulated ticks
func (m *Match) Tick() uint64 {
	return m.tick
}

// Join registers a participant (or returns the existing one) and replies to it
func (m *Match) Join(clientID, nickname string) JoinedPayload {
	before := m.ledger.Count()
	p := m.ledger.Add(clientID, nickname)

	reply := JoinedPayload{
		Ordinal:  p.Ordinal,
		Nickname: p.Nickname,
		Side:     p.Team,
		Status:   m.status,
		Topology: m.Topology(),
	}
	m.emit(NewClientEvent(EventJoined, clientID, reply))

	if m.ledger.Count() != before {
		m.emit(NewEvent(EventPlayerJoined, m.playerPayload(p)))
	}
	return reply
}

// Leave removes a participant and retracts its vote
func (m *Match) Leave(clientID string) error {
	p, err := m.ledger.Remove(clientID)
	if err != nil {
		return err
	}
	m.emit(NewEvent(EventPlayerLeft, m.playerPayload(p)))
	return nil
}

// Input casts a participant's vote
func (m *Match) Input(clientID string, dir Direction) error {
	changed, err := m.ledger.Cast(clientID, dir)
	if err != nil || !changed {
		return err
	}
	m.recordVote(EventVoteCast, clientID)
	return nil
}

// Release retracts a participant's vote
func (m *Match) Release(clientID string) error {
	changed, err := m.ledger.Release(clientID)
	if err != nil || !changed {
		return err
	}
	m.recordVote(EventVoteReleased, clientID)
	return nil
}

// Start begins a new game from waiting or finished. An empty topology keeps
// the configured default.
func (m *Match) Start(topology Topology) error {
	if m.status != StatusWaiting && m.status != StatusFinished {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, m.status)
	}
	if topology == "" {
		topology = m.settings.Topology
	}
	if _, err := ParseTopology(string(topology)); err != nil {
		return err
	}

	m.ledger.SetTopology(topology)
	m.resetField()
	m.status = StatusPlaying
	m.emit(NewEvent(EventStarted, m.lifecyclePayload()))
	return nil
}

// Pause freezes the simulation
func (m *Match) Pause() error {
	if !m.status.CanTransitionTo(StatusPaused) {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, m.status)
	}
	m.status = StatusPaused
	m.emit(NewEvent(EventPaused, m.lifecyclePayload()))
	return nil
}

// Resume continues a paused game
func (m *Match) Resume() error {
	if m.status != StatusPaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, m.status)
	}
	m.status = StatusPlaying
	m.emit(NewEvent(EventResumed, m.lifecyclePayload()))
	return nil
}

// Reset clears the field and score and returns to waiting
func (m *Match) Reset() {
	m.resetField()
	m.status = StatusWaiting
	m.emit(NewEvent(EventReset, m.lifecyclePayload()))
}

// ResetPlayers forgets every participant without touching score or status
func (m *Match) ResetPlayers() {
	m.ledger.ResetAll()
	m.inputs.Clear()
	m.emit(NewEvent(EventPlayersReset, &PlayerPayload{PlayerCount: 0}))
}

// Step advances the match by one tick. It does nothing unless playing.
// A panic inside the tick is recovered and the pre-tick state restored.
func (m *Match) Step() (err error) {
	if m.status != StatusPlaying {
		return nil
	}

	cp := m.checkpoint()
	defer func() {
		if r := recover(); r != nil {
			m.restore(cp)
			err = fmt.Errorf("%w: %v", ErrTickFault, r)
		}
	}()

	m.tick++

	if m.serve.Advance() {
		m.serveRound()
	}

	result := m.physics.Step(&m.ball, &m.paddles, StepInput{
		Tallies:   m.ledger.Tallies(),
		Movable:   m.movable(),
		BallSpeed: m.ballSpeed,
		BallLive:  !m.serve.Pending(),
	})

	for _, side := range result.Hits {
		m.emit(NewEvent(EventPaddleHit, &PaddleHitPayload{Side: side}))
	}

	if result.Goal {
		m.scoreGoal(result.Scorer)
	}

	return nil
}

// DrainEvents returns and clears the events emitted since the last drain
func (m *Match) DrainEvents() []*GameEvent {
	events := m.outbox
	m.outbox = nil
	return events
}

// movable returns which paddles follow votes this tick. Under ball-tracking
// only the paddle on the ball's half moves; a switch emits focusChanged.
func (m *Match) movable() [2]bool {
	if m.Topology() == TopologyFixedTeam {
		return [2]bool{true, true}
	}

	focus := m.physics.Half(m.ball)
	if focus != m.focus {
		m.focus = focus
		m.emit(NewEvent(EventFocusChanged, &FocusPayload{Side: focus}))
	}

	var movable [2]bool
	movable[focus] = true
	return movable
}

func (m *Match) scoreGoal(side Side) {
	m.score.add(side)
	m.emit(NewEvent(EventGoal, &GoalPayload{Side: side}))
	m.emit(NewEvent(EventScored, &ScoredPayload{Side: side, Score: m.score}))

	if m.score.Of(side) >= m.settings.WinningScore {
		m.serve.Cancel()
		m.status = StatusFinished
		m.emit(NewEvent(EventFinished, &FinishedPayload{Winner: side, Score: m.score}))
		return
	}

	m.serve.Arm(m.settings.ResetDelayTicks())
}

// serveRound starts the next round: paddles centered, votes cleared and the
// ball sent toward the side that is behind.
func (m *Match) serveRound() {
	m.round++
	if m.Topology() == TopologyFixedTeam {
		m.ballSpeed = math.Min(m.ballSpeed+m.settings.BallSpeedIncrement, m.settings.MaxBallSpeed)
	}

	m.centerPaddles()
	m.ledger.ClearVotes()

	target := m.score.Behind()
	m.physics.Launch(&m.ball, target, m.ballSpeed, m.spread())

	m.emit(NewEvent(EventRound, &RoundPayload{
		Round:     m.round,
		BallSpeed: m.ballSpeed,
		ServeTo:   target,
	}))
}

// resetField puts score, ball, paddles and votes back to a fresh game
func (m *Match) resetField() {
	m.serve.Cancel()
	m.score = Score{}
	m.round = 1
	m.ballSpeed = m.settings.BallSpeed
	m.centerPaddles()
	m.ledger.ClearVotes()
	m.inputs.Clear()

	target := SideLeft
	if m.rng.Intn(2) == 1 {
		target = SideRight
	}
	m.physics.Launch(&m.ball, target, m.ballSpeed, m.spread())
	m.focus = m.physics.Half(m.ball)
}

func (m *Match) centerPaddles() {
	for _, side := range Sides {
		m.paddles[side].Y = m.settings.PaddleCenter()
		m.paddles[side].Last = 0
	}
}

func (m *Match) spread() float64 {
	return m.rng.Float64()*2 - 1
}

func (m *Match) recordVote(eventType EventType, clientID string) {
	p, err := m.ledger.Get(clientID)
	if err != nil {
		return
	}
	m.inputs.Add(InputEntry{
		Ordinal:   p.Ordinal,
		Nickname:  p.Nickname,
		Direction: p.Direction,
		Timestamp: p.ChangedAt,
	})

	tallies := m.ledger.Tallies()
	m.emit(NewEvent(eventType, &VotePayload{
		ClientID:  p.ID,
		Ordinal:   p.Ordinal,
		Nickname:  p.Nickname,
		Direction: p.Direction,
		Left:      tallies[SideLeft],
		Right:     tallies[SideRight],
	}))
}

func (m *Match) playerPayload(p *Participant) *PlayerPayload {
	return &PlayerPayload{
		ClientID:    p.ID,
		Ordinal:     p.Ordinal,
		Nickname:    p.Nickname,
		Side:        p.Team,
		PlayerCount: m.ledger.Count(),
	}
}

func (m *Match) lifecyclePayload() *LifecyclePayload {
	return &LifecyclePayload{
		Status:   m.status,
		Topology: m.Topology(),
		Score:    m.score,
	}
}

func (m *Match) emit(event *GameEvent) {
	m.outbox = append(m.outbox, event)
}

// checkpoint captures the value state a tick may change
type checkpoint struct {
	status    Status
	score     Score
	round     int
	ballSpeed float64
	ball      Ball
	paddles   [2]Paddle
	focus     Side
	tick      uint64
	serve     ServeTimer
	outboxLen int
}

func (m *Match) checkpoint() checkpoint {
	return checkpoint{
		status:    m.status,
		score:     m.score,
		round:     m.round,
		ballSpeed: m.ballSpeed,
		ball:      m.ball,
		paddles:   m.paddles,
		focus:     m.focus,
		tick:      m.tick,
		serve:     m.serve,
		outboxLen: len(m.outbox),
	}
}

func (m *Match) restore(cp checkpoint) {
	m.status = cp.status
	m.score = cp.score
	m.round = cp.round
	m.ballSpeed = cp.ballSpeed
	m.ball = cp.ball
	m.paddles = cp.paddles
	m.focus = cp.focus
	m.tick = cp.tick
	m.serve = cp.serve
	m.outbox = m.outbox[:cp.outboxLen]
}
