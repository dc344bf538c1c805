package domain

import "math"

// centerEase is the share of the remaining distance an idle paddle closes
// toward vertical center each tick.
const centerEase = 0.02

// Ball is the ball's top-left corner and per-tick velocity
type Ball struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// Paddle is one of the two vote-driven bars
type Paddle struct {
	Side Side    `json:"side"`
	Y    float64 `json:"y"`
	Last float64 `json:"last"` // displacement applied on the latest tick
}

// StepInput is everything the engine reads for one tick
type StepInput struct {
	Tallies   [2]Tally
	Movable   [2]bool
	BallSpeed float64
	BallLive  bool
}

// StepResult is what happened during one tick
type StepResult struct {
	Hits   []Side
	Goal   bool
	Scorer Side
}

// Physics advances ball and paddles one fixed tick at a time
type Physics struct {
	settings Settings
}

// NewPhysics creates an engine for the given court
func NewPhysics(settings Settings) Physics {
	return Physics{settings: settings}
}

// Displacement maps a paddle's tally to this tick's vertical movement.
// A unanimous vote moves at full paddle speed, a 50/50 split not at all;
// negative is up.
func (e Physics) Displacement(t Tally) float64 {
	up, down := t.Ratios()
	if t.Total() == 0 || up == down {
		return 0
	}
	magnitude := e.settings.PaddleSpeed * (math.Max(up, down) - 0.5) * 2
	if up > down {
		return -magnitude
	}
	return magnitude
}

// Step advances the simulation by one tick
func (e Physics) Step(ball *Ball, paddles *[2]Paddle, in StepInput) StepResult {
	var result StepResult

	for _, side := range Sides {
		e.movePaddle(&paddles[side], in.Tallies[side], in.Movable[side])
	}

	if !in.BallLive {
		return result
	}

	ball.X += ball.VX
	ball.Y += ball.VY

	e.bounceWalls(ball)

	for _, side := range Sides {
		if e.hitsPaddle(ball, paddles[side]) {
			e.deflect(ball, paddles[side], in.BallSpeed)
			result.Hits = append(result.Hits, side)
		}
	}

	switch {
	case ball.X < 0:
		result.Goal = true
		result.Scorer = SideRight
	case ball.X > e.settings.CanvasWidth:
		result.Goal = true
		result.Scorer = SideLeft
	}

	return result
}

func (e Physics) movePaddle(p *Paddle, t Tally, movable bool) {
	before := p.Y
	if movable {
		p.Y += e.Displacement(t)
	} else {
		p.Y += (e.settings.PaddleCenter() - p.Y) * centerEase
	}
	p.Y = clamp(p.Y, 0, e.settings.CanvasHeight-e.settings.PaddleHeight)
	p.Last = p.Y - before
}

func (e Physics) bounceWalls(ball *Ball) {
	maxY := e.settings.CanvasHeight - e.settings.BallSize
	if ball.Y < 0 {
		ball.Y = 0
		ball.VY = math.Abs(ball.VY)
	} else if ball.Y > maxY {
		ball.Y = maxY
		ball.VY = -math.Abs(ball.VY)
	}
}

// hitsPaddle checks approach direction, the paddle's horizontal hit band and
// vertical overlap.
func (e Physics) hitsPaddle(ball *Ball, p Paddle) bool {
	s := e.settings
	if ball.Y+s.BallSize < p.Y || ball.Y > p.Y+s.PaddleHeight {
		return false
	}
	if p.Side == SideLeft {
		face := s.PaddleMargin + s.PaddleWidth
		return ball.VX < 0 && ball.X <= face && ball.X+s.BallSize >= s.PaddleMargin
	}
	face := s.CanvasWidth - s.PaddleMargin - s.PaddleWidth
	return ball.VX > 0 && ball.X+s.BallSize >= face && ball.X <= s.CanvasWidth-s.PaddleMargin
}

// deflect reverses the ball and sets its vertical speed from where it struck
// the paddle: center sends it flat, the ends at up to ±ballSpeed.
func (e Physics) deflect(ball *Ball, p Paddle, ballSpeed float64) {
	s := e.settings
	hitY := ball.Y + s.BallSize/2
	ball.VX = -ball.VX
	ball.VY = ((hitY-p.Y)/s.PaddleHeight - 0.5) * ballSpeed * 2

	if p.Side == SideLeft {
		ball.X = s.PaddleMargin + s.PaddleWidth
	} else {
		ball.X = s.CanvasWidth - s.PaddleMargin - s.PaddleWidth - s.BallSize
	}
}

// Launch places the ball at the center of the court moving toward target.
// spread in [-1, 1] sets the vertical component as a share of half the speed.
func (e Physics) Launch(ball *Ball, target Side, speed, spread float64) {
	s := e.settings
	ball.X = (s.CanvasWidth - s.BallSize) / 2
	ball.Y = (s.CanvasHeight - s.BallSize) / 2
	ball.VX = speed
	if target == SideLeft {
		ball.VX = -speed
	}
	ball.VY = clamp(spread, -1, 1) * speed / 2
}

// Half returns the side of the court the ball's center is on. Exactly on
// the center line it is the side the ball is heading to.
func (e Physics) Half(ball Ball) Side {
	center := ball.X + e.settings.BallSize/2
	mid := e.settings.CanvasWidth / 2
	switch {
	case center < mid:
		return SideLeft
	case center > mid:
		return SideRight
	case ball.VX < 0:
		return SideLeft
	}
	return SideRight
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
