package domain

import "fmt"

// Side identifies one of the two paddles
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Sides lists both sides in index order
var Sides = [2]Side{SideLeft, SideRight}

// String returns the string representation of the side
func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// MarshalText encodes the side as "left" or "right"
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "left" or "right"
func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "left":
		*s = SideLeft
	case "right":
		*s = SideRight
	default:
		return fmt.Errorf("unknown side %q", string(b))
	}
	return nil
}

// TeamForOrdinal splits participants into teams by join order parity:
// odd ordinals defend the left paddle, even ordinals the right one.
func TeamForOrdinal(ordinal int) Side {
	if ordinal%2 == 0 {
		return SideRight
	}
	return SideLeft
}

// Direction is a participant's held vote
type Direction string

const (
	DirectionNone Direction = "none"
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection accepts only "up" and "down"
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	}
	return DirectionNone, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Topology decides which paddle a vote drives and which paddle may move
type Topology string

const (
	// TopologyBallTracking applies every vote to both paddles; only the
	// paddle on the ball's half of the court moves.
	TopologyBallTracking Topology = "ball-tracking"
	// TopologyFixedTeam splits participants into two teams by join order,
	// each permanently driving one paddle. Ball speed escalates every round.
	TopologyFixedTeam Topology = "fixed-team"
)

// ParseTopology validates a topology name
func ParseTopology(s string) (Topology, error) {
	switch Topology(s) {
	case TopologyBallTracking, TopologyFixedTeam:
		return Topology(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTopology, s)
}
