package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdpong/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.Server.PublicURL)
	assert.Equal(t, 20.0, cfg.Server.RateLimit)
	assert.Equal(t, 40, cfg.Server.RateBurst)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	if diff := cmp.Diff(domain.DefaultSettings(), cfg.Settings()); diff != "" {
		t.Errorf("default settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("PUBLIC_URL", "https://pong.example.com")
	t.Setenv("TICK_RATE", "30")
	t.Setenv("WINNING_SCORE", "3")
	t.Setenv("ROUND_RESET_DELAY", "2s")
	t.Setenv("CONTROL_TOPOLOGY", "fixed-team")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.GetAddr())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://pong.example.com", cfg.Server.PublicURL)
	assert.Equal(t, "json", cfg.Logging.Format)

	settings := cfg.Settings()
	assert.Equal(t, 30, settings.TickRate)
	assert.Equal(t, 3, settings.WinningScore)
	assert.Equal(t, 2*time.Second, settings.RoundResetDelay)
	assert.Equal(t, 60, settings.ResetDelayTicks())
	assert.Equal(t, domain.TopologyFixedTeam, settings.Topology)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unparseable int", "TICK_RATE", "fast"},
		{"unparseable duration", "ROUND_RESET_DELAY", "soon"},
		{"zero tick rate", "TICK_RATE", "0"},
		{"unknown topology", "CONTROL_TOPOLOGY", "free-for-all"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"zero rate limit", "HTTP_RATE_LIMIT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
