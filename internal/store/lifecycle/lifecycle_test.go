package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearTransitions(t *testing.T) {
	for _, from := range []Status{Idle, Succeeded, Failed} {
		s, err := from.Next(Pending)
		require.NoError(t, err)
		assert.Equal(t, Loading, s)

		ok, err := s.Next(Fulfilled)
		require.NoError(t, err)
		assert.Equal(t, Succeeded, ok)

		bad, err := s.Next(Rejected)
		require.NoError(t, err)
		assert.Equal(t, Failed, bad)
	}
}

func TestInvalidTransitions(t *testing.T) {
	_, err := Idle.Next(Fulfilled)
	assert.Error(t, err)
	_, err = Succeeded.Next(Rejected)
	assert.Error(t, err)
	s, err := Idle.Next(Phase("bogus"))
	assert.Error(t, err)
	assert.Equal(t, Idle, s)
}

func TestPendingWhileLoading(t *testing.T) {
	s, err := Loading.Next(Pending)
	require.NoError(t, err)
	assert.Equal(t, Loading, s)
}

func TestCurrent(t *testing.T) {
	assert.True(t, Current(3, 3))
	assert.True(t, Current(3, 0))
	assert.False(t, Current(3, 2))
}

func TestInFlight(t *testing.T) {
	assert.True(t, Loading.InFlight())
	assert.False(t, Idle.InFlight())
}
