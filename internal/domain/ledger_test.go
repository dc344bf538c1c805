package domain

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAddAssignsSequentialOrdinals(t *testing.T) {
	l := NewLedger(TopologyBallTracking)

	a := l.Add("a", "")
	b := l.Add("b", "")
	again := l.Add("a", "")

	assert.Equal(t, 1, a.Ordinal)
	assert.Equal(t, 2, b.Ordinal)
	assert.Same(t, a, again)
	assert.Equal(t, 2, l.Count())
	assert.Equal(t, DirectionNone, b.Direction)
}

func TestLedgerOrdinalsNeverReused(t *testing.T) {
	l := NewLedger(TopologyBallTracking)
	l.Add("a", "")
	_, err := l.Remove("a")
	require.NoError(t, err)

	b := l.Add("b", "")
	assert.Equal(t, 2, b.Ordinal)
}

func TestLedgerCastSameDirectionDoesNotDoubleCount(t *testing.T) {
	l := NewLedger(TopologyBallTracking)
	l.Add("a", "")

	changed, err := l.Cast("a", DirectionUp)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = l.Cast("a", DirectionUp)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, Tally{Up: 1}, l.Tally(SideLeft))
	assert.Equal(t, Tally{Up: 1}, l.Tally(SideRight))
}

func TestLedgerCastChangeMovesContribution(t *testing.T) {
	l := NewLedger(TopologyBallTracking)
	l.Add("a", "")

	_, err := l.Cast("a", DirectionUp)
	require.NoError(t, err)
	_, err = l.Cast("a", DirectionDown)
	require.NoError(t, err)

	assert.Equal(t, Tally{Down: 1}, l.Tally(SideLeft))
}

func TestLedgerUnknownParticipantIsRejected(t *testing.T) {
	l := NewLedger(TopologyBallTracking)

	_, err := l.Cast("ghost", DirectionUp)
	assert.ErrorIs(t, err, ErrUnknownParticipant)
	_, err = l.Release("ghost")
	assert.ErrorIs(t, err, ErrUnknownParticipant)
	_, err = l.Remove("ghost")
	assert.ErrorIs(t, err, ErrUnknownParticipant)

	assert.Equal(t, [2]Tally{}, l.Tallies())
}

func TestLedgerInvalidDirectionIsRejected(t *testing.T) {
	l := NewLedger(TopologyBallTracking)
	l.Add("a", "")

	_, err := l.Cast("a", DirectionNone)
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = l.Cast("a", Direction("sideways"))
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Equal(t, [2]Tally{}, l.Tallies())
}

func TestLedgerReleaseAndRemove(t *testing.T) {
	l := NewLedger(TopologyBallTracking)
	l.Add("a", "")
	l.Add("b", "")
	_, _ = l.Cast("a", DirectionUp)
	_, _ = l.Cast("b", DirectionDown)

	released, err := l.Release("a")
	require.NoError(t, err)
	assert.True(t, released)

	released, err = l.Release("a")
	require.NoError(t, err)
	assert.False(t, released)

	_, err = l.Remove("b")
	require.NoError(t, err)

	assert.Equal(t, [2]Tally{}, l.Tallies())
	assert.Equal(t, 1, l.Count())
}

func TestLedgerFixedTeamContributesToTeamPaddle(t *testing.T) {
	l := NewLedger(TopologyFixedTeam)
	odd := l.Add("odd", "")
	even := l.Add("even", "")
	require.Equal(t, SideLeft, odd.Team)
	require.Equal(t, SideRight, even.Team)

	_, _ = l.Cast("odd", DirectionUp)
	_, _ = l.Cast("even", DirectionDown)

	assert.Equal(t, Tally{Up: 1}, l.Tally(SideLeft))
	assert.Equal(t, Tally{Down: 1}, l.Tally(SideRight))
}

func TestLedgerSetTopologyClearsVotes(t *testing.T) {
	l := NewLedger(TopologyBallTracking)
	l.Add("a", "")
	_, _ = l.Cast("a", DirectionUp)

	l.SetTopology(TopologyFixedTeam)

	p, err := l.Get("a")
	require.NoError(t, err)
	assert.Equal(t, DirectionNone, p.Direction)
	assert.Equal(t, [2]Tally{}, l.Tallies())
	assert.Equal(t, TopologyFixedTeam, l.Topology())
}

func TestLedgerResetAllRestartsOrdinals(t *testing.T) {
	l := NewLedger(TopologyBallTracking)
	l.Add("a", "")
	l.Add("b", "")
	_, _ = l.Cast("b", DirectionDown)

	l.ResetAll()

	assert.Zero(t, l.Count())
	assert.Equal(t, [2]Tally{}, l.Tallies())
	assert.Equal(t, 1, l.Add("c", "").Ordinal)
}

// Tallies must always equal a full recount of live directions.
func TestLedgerTalliesMatchRecount(t *testing.T) {
	for _, topology := range []Topology{TopologyBallTracking, TopologyFixedTeam} {
		t.Run(string(topology), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			l := NewLedger(topology)
			ids := make([]string, 12)
			for i := range ids {
				ids[i] = fmt.Sprintf("p%d", i)
			}

			for i := 0; i < 2000; i++ {
				id := ids[rng.Intn(len(ids))]
				switch rng.Intn(5) {
				case 0:
					l.Add(id, "")
				case 1:
					_, _ = l.Cast(id, DirectionUp)
				case 2:
					_, _ = l.Cast(id, DirectionDown)
				case 3:
					_, _ = l.Release(id)
				case 4:
					_, _ = l.Remove(id)
				}

				want := recount(l)
				require.Equal(t, want, l.Tallies(), "step %d", i)
				for _, tally := range l.Tallies() {
					require.GreaterOrEqual(t, tally.Up, 0)
					require.GreaterOrEqual(t, tally.Down, 0)
				}
			}
		})
	}
}

func recount(l *Ledger) [2]Tally {
	var out [2]Tally
	for _, p := range l.participants {
		sides := Sides[:]
		if l.topology == TopologyFixedTeam {
			sides = []Side{p.Team}
		}
		for _, side := range sides {
			out[side].apply(p.Direction, 1)
		}
	}
	return out
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, DirectionUp, dir)

	for _, bad := range []string{"", "none", "left", "UP"} {
		_, err := ParseDirection(bad)
		assert.ErrorIs(t, err, ErrInvalidDirection, bad)
	}
}
