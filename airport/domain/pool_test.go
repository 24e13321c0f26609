package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_DefaultsToFiveSlots(t *testing.T) {
	require.Equal(t, DefaultSlotCount, NewPool(0).Len())
	require.Equal(t, DefaultSlotCount, NewPool(-3).Len())
	require.Equal(t, 2, NewPool(2).Len())
}

func TestNewPool_SlotIDsAreUnique(t *testing.T) {
	p := NewPool(8)
	seen := make(map[uuid.UUID]bool)
	for i, s := range p.slots {
		require.Equal(t, i, s.Index)
		require.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestPool_ClaimFollowsConstructionOrder(t *testing.T) {
	p := NewPool(3)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for want := 0; want < 3; want++ {
		s, ok := p.Claim(at)
		require.True(t, ok)
		require.Equal(t, want, s.Index)
		require.Same(t, p.slots[want], s)
	}

	s, ok := p.Claim(at)
	require.False(t, ok)
	require.Nil(t, s)
}

func TestPool_ExhaustionDoesNotMutate(t *testing.T) {
	p := NewPool(2)
	at := time.Unix(1700000000, 0)
	p.Claim(at)
	p.Claim(at)

	before := len(p.Booked(at))
	for i := 0; i < 10; i++ {
		_, ok := p.Claim(at)
		require.False(t, ok)
	}
	require.Equal(t, before, len(p.Booked(at)))
	for _, s := range p.slots {
		assert.Len(t, s.bookings, 1)
	}
}

func TestPool_TimestampsAreIndependent(t *testing.T) {
	p := NewPool(1)
	base := time.Unix(1700000000, 0)

	for i := 0; i < 5; i++ {
		s, ok := p.Claim(base.Add(time.Duration(i) * time.Millisecond))
		require.True(t, ok)
		require.Equal(t, 0, s.Index)
	}
}

func TestPool_SameInstantAcrossLocationsIsSameKey(t *testing.T) {
	p := NewPool(1)
	utc := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("BRT", -3*60*60))

	_, ok := p.Claim(utc)
	require.True(t, ok)
	_, ok = p.Claim(local)
	require.False(t, ok, "same instant in another zone must hit the same booking")
}

func TestPool_BookedDoesNotCreateEntries(t *testing.T) {
	p := NewPool(3)
	require.Empty(t, p.Booked(time.Unix(1, 0)))
	for _, s := range p.slots {
		require.Empty(t, s.bookings)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(" " + string(s) + " ")
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	_, err := ParseStrategy("spinlock")
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestPool_InstantsBeyondUnixNanoRangeDoNotCollide(t *testing.T) {
	p := NewPool(1)
	first := time.Date(2500, 1, 1, 0, 0, 0, 0, time.UTC)
	// UnixNano de `second` dá a volta no int64 e coincide com o de `first`.
	second := time.Unix(first.Unix()+18446744073, 709551616)
	require.False(t, first.Equal(second))
	require.Equal(t, first.UnixNano(), second.UnixNano())

	_, ok := p.Claim(first)
	require.True(t, ok)
	_, ok = p.Claim(second)
	require.True(t, ok, "distinct instant must have its own booking")

	ancient := time.Date(1, 1, 1, 0, 0, 0, 1, time.UTC)
	_, ok = p.Claim(ancient)
	require.True(t, ok)
	_, ok = p.Claim(ancient)
	require.False(t, ok)
}

func TestInstantOf(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 42, time.UTC)
	require.Equal(t, InstantOf(at), InstantOf(at.In(time.FixedZone("BRT", -3*60*60))))
	require.Equal(t, "1714564800.000000042", InstantOf(at).String())
	require.True(t, at.Equal(InstantOf(at).Time()))
}

func TestOutcome_String(t *testing.T) {
	require.Equal(t, "granted", OutcomeGranted.String())
	require.Equal(t, "unavailable", OutcomeUnavailable.String())
	require.Equal(t, "throttled", OutcomeThrottled.String())
	require.Equal(t, "busy", OutcomeBusy.String())
	require.Equal(t, "unknown", Outcome(42).String())
	require.True(t, Claim{Outcome: OutcomeGranted}.Granted())
	require.False(t, Claim{Outcome: OutcomeBusy}.Granted())
}
