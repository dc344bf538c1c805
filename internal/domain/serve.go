package domain

// ServeTimer is the pending round reset after a goal. It counts simulated
// ticks, so it stands still while the match is paused. There is at most one
// pending serve: arming replaces it, cancel drops it.
type ServeTimer struct {
	armed     bool
	remaining int
	seq       int
}

// Arm schedules a serve after the given number of ticks, replacing any
// pending one. It returns the sequence number of the new serve.
func (t *ServeTimer) Arm(ticks int) int {
	t.seq++
	t.armed = true
	t.remaining = ticks
	return t.seq
}

// Cancel drops the pending serve if there is one
func (t *ServeTimer) Cancel() {
	t.armed = false
	t.remaining = 0
}

// Pending reports whether a serve is scheduled
func (t *ServeTimer) Pending() bool {
	return t.armed
}

// Remaining returns the ticks left before the serve fires
func (t *ServeTimer) Remaining() int {
	return t.remaining
}

// Seq identifies the latest armed serve
func (t *ServeTimer) Seq() int {
	return t.seq
}

// Advance counts one tick down and reports whether the serve fired on it
func (t *ServeTimer) Advance() bool {
	if !t.armed {
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.armed = false
		return true
	}
	return false
}
