package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func centeredPaddles(s Settings) [2]Paddle {
	return [2]Paddle{
		{Side: SideLeft, Y: s.PaddleCenter()},
		{Side: SideRight, Y: s.PaddleCenter()},
	}
}

func TestDisplacement(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)

	tests := []struct {
		name  string
		tally Tally
		want  float64
	}{
		{"no votes", Tally{}, 0},
		{"tie", Tally{Up: 3, Down: 3}, 0},
		{"unanimous up", Tally{Up: 10}, -s.PaddleSpeed},
		{"unanimous down", Tally{Down: 1}, s.PaddleSpeed},
		{"three to one up", Tally{Up: 3, Down: 1}, -s.PaddleSpeed * 0.5},
		{"one to four down", Tally{Up: 1, Down: 4}, s.PaddleSpeed * 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.Displacement(tt.tally), 1e-9)
		})
	}
}

func TestPaddleMovesAtFullSpeedAndClamps(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)
	paddles := centeredPaddles(s)
	ball := Ball{X: 400, Y: 300, VX: 6}

	assert.Equal(t, 240.0, paddles[SideLeft].Y)

	e.Step(&ball, &paddles, StepInput{
		Tallies: [2]Tally{{Up: 10}, {}},
		Movable: [2]bool{true, true},
	})
	assert.Equal(t, 240-s.PaddleSpeed, paddles[SideLeft].Y)
	assert.Equal(t, -s.PaddleSpeed, paddles[SideLeft].Last)

	paddles[SideLeft].Y = 3
	e.Step(&ball, &paddles, StepInput{
		Tallies: [2]Tally{{Up: 10}, {}},
		Movable: [2]bool{true, true},
	})
	assert.Equal(t, 0.0, paddles[SideLeft].Y)

	paddles[SideRight].Y = s.CanvasHeight - s.PaddleHeight - 1
	e.Step(&ball, &paddles, StepInput{
		Tallies: [2]Tally{{}, {Down: 2}},
		Movable: [2]bool{true, true},
	})
	assert.Equal(t, s.CanvasHeight-s.PaddleHeight, paddles[SideRight].Y)
}

func TestIdlePaddleEasesTowardCenter(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)
	paddles := centeredPaddles(s)
	paddles[SideRight].Y = 0
	ball := Ball{}

	e.Step(&ball, &paddles, StepInput{
		Tallies: [2]Tally{{}, {Up: 5}},
		Movable: [2]bool{true, false},
	})

	assert.InDelta(t, s.PaddleCenter()*centerEase, paddles[SideRight].Y, 1e-9)
	assert.Less(t, paddles[SideRight].Y, s.PaddleCenter())
}

func TestWallBounceStaysInBounds(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)
	maxY := s.CanvasHeight - s.BallSize

	tests := []struct {
		name   string
		ball   Ball
		wantY  float64
		wantUp bool
	}{
		{"top overshoot", Ball{X: 400, Y: 2, VX: 6, VY: -9}, 0, false},
		{"large top overshoot", Ball{X: 400, Y: 1, VX: 6, VY: -400}, 0, false},
		{"bottom overshoot", Ball{X: 400, Y: maxY - 1, VX: 6, VY: 5}, maxY, true},
		{"large bottom overshoot", Ball{X: 400, Y: maxY, VX: 6, VY: 900}, maxY, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paddles := centeredPaddles(s)
			ball := tt.ball
			e.Step(&ball, &paddles, StepInput{BallLive: true, BallSpeed: s.BallSpeed})

			assert.Equal(t, tt.wantY, ball.Y)
			assert.GreaterOrEqual(t, ball.Y, 0.0)
			assert.LessOrEqual(t, ball.Y, maxY)
			assert.Equal(t, tt.wantUp, ball.VY < 0)
		})
	}
}

func TestPaddleCollisionDeflectsByHitPosition(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)

	tests := []struct {
		name   string
		ballY  float64
		wantVY float64
	}{
		{"center", 292.5, 0},
		{"top edge", 232.5, -s.BallSpeed},
		{"lower quarter", 322.5, s.BallSpeed * 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paddles := centeredPaddles(s)
			ball := Ball{X: 40, Y: tt.ballY, VX: -s.BallSpeed}

			result := e.Step(&ball, &paddles, StepInput{BallLive: true, BallSpeed: s.BallSpeed})

			assert.Equal(t, []Side{SideLeft}, result.Hits)
			assert.Equal(t, s.BallSpeed, ball.VX)
			assert.InDelta(t, tt.wantVY, ball.VY, 1e-9)
			assert.Equal(t, s.PaddleMargin+s.PaddleWidth, ball.X)
			assert.False(t, result.Goal)
		})
	}
}

func TestRightPaddleCollision(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)
	paddles := centeredPaddles(s)
	ball := Ball{X: 750, Y: 292.5, VX: s.BallSpeed}

	result := e.Step(&ball, &paddles, StepInput{BallLive: true, BallSpeed: s.BallSpeed})

	assert.Equal(t, []Side{SideRight}, result.Hits)
	assert.Equal(t, -s.BallSpeed, ball.VX)
	assert.Equal(t, s.CanvasWidth-s.PaddleMargin-s.PaddleWidth-s.BallSize, ball.X)
}

func TestPaddleCollisionRequiresApproach(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)
	paddles := centeredPaddles(s)
	ball := Ball{X: 30, Y: 292.5, VX: s.BallSpeed}

	result := e.Step(&ball, &paddles, StepInput{BallLive: true, BallSpeed: s.BallSpeed})

	assert.Empty(t, result.Hits)
	assert.Equal(t, s.BallSpeed, ball.VX)
}

func TestBallMissingPaddleScores(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)

	paddles := centeredPaddles(s)
	ball := Ball{X: 0, Y: 50, VX: -s.BallSpeed}
	result := e.Step(&ball, &paddles, StepInput{BallLive: true, BallSpeed: s.BallSpeed})
	assert.True(t, result.Goal)
	assert.Equal(t, SideRight, result.Scorer)

	paddles = centeredPaddles(s)
	ball = Ball{X: s.CanvasWidth - 1, Y: 50, VX: s.BallSpeed}
	result = e.Step(&ball, &paddles, StepInput{BallLive: true, BallSpeed: s.BallSpeed})
	assert.True(t, result.Goal)
	assert.Equal(t, SideLeft, result.Scorer)
}

func TestDeadBallDoesNotMove(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)
	paddles := centeredPaddles(s)
	ball := Ball{X: -6, Y: 50, VX: -s.BallSpeed}

	result := e.Step(&ball, &paddles, StepInput{BallLive: false, BallSpeed: s.BallSpeed})

	assert.Equal(t, Ball{X: -6, Y: 50, VX: -s.BallSpeed}, ball)
	assert.False(t, result.Goal)
}

func TestLaunchAndHalf(t *testing.T) {
	s := DefaultSettings()
	e := NewPhysics(s)
	var ball Ball

	e.Launch(&ball, SideLeft, 6, 1)
	assert.Equal(t, -6.0, ball.VX)
	assert.Equal(t, 3.0, ball.VY)
	assert.Equal(t, SideLeft, e.Half(ball))

	e.Launch(&ball, SideRight, 6, -5)
	assert.Equal(t, 6.0, ball.VX)
	assert.Equal(t, -3.0, ball.VY)
	assert.Equal(t, SideRight, e.Half(ball))

	ball.X = 100
	assert.Equal(t, SideLeft, e.Half(ball))
}
