package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusWaiting, StatusPlaying, true},
		{StatusWaiting, StatusPaused, false},
		{StatusPlaying, StatusPaused, true},
		{StatusPlaying, StatusFinished, true},
		{StatusPaused, StatusPlaying, true},
		{StatusPaused, StatusFinished, false},
		{StatusFinished, StatusPlaying, true},
		{StatusFinished, StatusPaused, false},
		{StatusFinished, StatusWaiting, true},
		{StatusPaused, StatusWaiting, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusPlaying.Active())
	assert.True(t, StatusPaused.Active())
	assert.False(t, StatusWaiting.Active())
	assert.False(t, StatusFinished.Active())
}
