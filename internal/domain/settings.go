package domain

import (
	"fmt"
	"math"
	"time"
)

// Settings holds the tunable parameters of a match
type Settings struct {
	TickRate           int           `json:"tickRate"`
	CanvasWidth        float64       `json:"canvasWidth"`
	CanvasHeight       float64       `json:"canvasHeight"`
	PaddleWidth        float64       `json:"paddleWidth"`
	PaddleHeight       float64       `json:"paddleHeight"`
	PaddleMargin       float64       `json:"paddleMargin"`
	BallSize           float64       `json:"ballSize"`
	PaddleSpeed        float64       `json:"paddleSpeed"`
	BallSpeed          float64       `json:"ballSpeed"`
	BallSpeedIncrement float64       `json:"ballSpeedIncrement"`
	MaxBallSpeed       float64       `json:"maxBallSpeed"`
	WinningScore       int           `json:"winningScore"`
	RoundResetDelay    time.Duration `json:"roundResetDelay"`
	Topology           Topology      `json:"topology"`
	InputLogSize       int           `json:"inputLogSize"`
}

// DefaultSettings returns the default match settings
func DefaultSettings() Settings {
	return Settings{
		TickRate:           60,
		CanvasWidth:        800,
		CanvasHeight:       600,
		PaddleWidth:        15,
		PaddleHeight:       120,
		PaddleMargin:       20,
		BallSize:           15,
		PaddleSpeed:        8,
		BallSpeed:          6,
		BallSpeedIncrement: 0.5,
		MaxBallSpeed:       14,
		WinningScore:       7,
		RoundResetDelay:    1500 * time.Millisecond,
		Topology:           TopologyBallTracking,
		InputLogSize:       12,
	}
}

// Validate checks that the settings describe a playable court
func (s Settings) Validate() error {
	switch {
	case s.TickRate <= 0:
		return fmt.Errorf("%w: tick rate must be positive", ErrInvalidSettings)
	case s.CanvasWidth <= 0 || s.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas must have a positive size", ErrInvalidSettings)
	case s.PaddleHeight <= 0 || s.PaddleHeight > s.CanvasHeight:
		return fmt.Errorf("%w: paddle height must fit the canvas", ErrInvalidSettings)
	case s.PaddleWidth <= 0 || s.PaddleMargin < 0 || 2*(s.PaddleMargin+s.PaddleWidth) >= s.CanvasWidth:
		return fmt.Errorf("%w: paddles must fit the canvas width", ErrInvalidSettings)
	case s.BallSize <= 0 || s.BallSize >= s.CanvasHeight:
		return fmt.Errorf("%w: ball size must fit the canvas", ErrInvalidSettings)
	case s.PaddleSpeed < 0:
		return fmt.Errorf("%w: paddle speed must not be negative", ErrInvalidSettings)
	case s.BallSpeed <= 0 || s.MaxBallSpeed < s.BallSpeed || s.BallSpeedIncrement < 0:
		return fmt.Errorf("%w: ball speed must be positive and below the maximum", ErrInvalidSettings)
	case s.WinningScore <= 0:
		return fmt.Errorf("%w: winning score must be positive", ErrInvalidSettings)
	case s.RoundResetDelay < 0:
		return fmt.Errorf("%w: round reset delay must not be negative", ErrInvalidSettings)
	}
	if _, err := ParseTopology(string(s.Topology)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// TickPeriod returns the wall-clock duration of one tick
func (s Settings) TickPeriod() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// ResetDelayTicks converts the round reset delay into simulated ticks
func (s Settings) ResetDelayTicks() int {
	return int(math.Round(s.RoundResetDelay.Seconds() * float64(s.TickRate)))
}

// PaddleCenter returns the paddle y that centers it vertically
func (s Settings) PaddleCenter() float64 {
	return (s.CanvasHeight - s.PaddleHeight) / 2
}
