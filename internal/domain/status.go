package domain

// Status represents the current lifecycle state of the match
type Status string

const (
	StatusWaiting  Status = "waiting"  // Idle, nothing simulated
	StatusPlaying  Status = "playing"  // Ticks advance physics
	StatusPaused   Status = "paused"   // Ticks are no-ops, loop keeps running
	StatusFinished Status = "finished" // A side reached the winning score
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Active reports whether the loop driver should be running
func (s Status) Active() bool {
	return s == StatusPlaying || s == StatusPaused
}

// CanTransitionTo checks if a transition from current status to target status is valid.
// Reset to waiting is allowed from anywhere.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusWaiting {
		return true
	}

	validTransitions := map[Status][]Status{
		StatusWaiting:  {StatusPlaying},
		StatusPlaying:  {StatusPaused, StatusFinished},
		StatusPaused:   {StatusPlaying},
		StatusFinished: {StatusPlaying},
	}

	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
