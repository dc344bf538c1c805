package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"crowdpong/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port      string  `env:"PORT" envDefault:"8080"`
	Host      string  `env:"HOST" envDefault:"0.0.0.0"`
	Env       string  `env:"ENV" envDefault:"development"` // "development" or "production"
	PublicURL string  `env:"PUBLIC_URL"`                   // base URL encoded in the join QR code
	RateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"20"`
	RateBurst int     `env:"HTTP_RATE_BURST" envDefault:"40"`
}

// GameConfig holds match configuration
type GameConfig struct {
	TickRate           int           `env:"TICK_RATE" envDefault:"60"`
	CanvasWidth        float64       `env:"CANVAS_WIDTH" envDefault:"800"`
	CanvasHeight       float64       `env:"CANVAS_HEIGHT" envDefault:"600"`
	PaddleWidth        float64       `env:"PADDLE_WIDTH" envDefault:"15"`
	PaddleHeight       float64       `env:"PADDLE_HEIGHT" envDefault:"120"`
	PaddleMargin       float64       `env:"PADDLE_MARGIN" envDefault:"20"`
	BallSize           float64       `env:"BALL_SIZE" envDefault:"15"`
	PaddleSpeed        float64       `env:"PADDLE_SPEED" envDefault:"8"`
	BallSpeed          float64       `env:"BALL_SPEED" envDefault:"6"`
	BallSpeedIncrement float64       `env:"BALL_SPEED_INCREMENT" envDefault:"0.5"`
	MaxBallSpeed       float64       `env:"MAX_BALL_SPEED" envDefault:"14"`
	WinningScore       int           `env:"WINNING_SCORE" envDefault:"7"`
	RoundResetDelay    time.Duration `env:"ROUND_RESET_DELAY" envDefault:"1500ms"`
	ControlTopology    string        `env:"CONTROL_TOPOLOGY" envDefault:"ball-tracking"`
	InputLogSize       int           `env:"INPUT_LOG_SIZE" envDefault:"12"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env parsing alone cannot
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return errors.New("HTTP_RATE_LIMIT and HTTP_RATE_BURST must be positive")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format)
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("game config: %w", err)
	}
	return nil
}

// Settings converts the game section into match settings
func (c *Config) Settings() domain.Settings {
	g := c.Game
	return domain.Settings{
		TickRate:           g.TickRate,
		CanvasWidth:        g.CanvasWidth,
		CanvasHeight:       g.CanvasHeight,
		PaddleWidth:        g.PaddleWidth,
		PaddleHeight:       g.PaddleHeight,
		PaddleMargin:       g.PaddleMargin,
		BallSize:           g.BallSize,
		PaddleSpeed:        g.PaddleSpeed,
		BallSpeed:          g.BallSpeed,
		BallSpeedIncrement: g.BallSpeedIncrement,
		MaxBallSpeed:       g.MaxBallSpeed,
		WinningScore:       g.WinningScore,
		RoundResetDelay:    g.RoundResetDelay,
		Topology:           domain.Topology(g.ControlTopology),
		InputLogSize:       g.InputLogSize,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
