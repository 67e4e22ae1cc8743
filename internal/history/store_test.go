package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.EnsureSchema())
	require.NoError(t, s.EnsureSchema())
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	s := testStore(t)

	id1, err := s.Append(1, "hi", "yo")
	require.NoError(t, err)
	id2, err := s.Append(1, "again", "still")
	require.NoError(t, err)
	require.Greater(t, id2, id1)
}

func TestRecentUnseenUserIsEmpty(t *testing.T) {
	s := testStore(t)

	turns, err := s.Recent(42, 5)
	require.NoError(t, err)
	require.Empty(t, turns)
}

func TestRecentWindowBoundAndOrder(t *testing.T) {
	s := testStore(t)

	for i := 1; i <= 8; i++ {
		_, err := s.Append(7, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		require.NoError(t, err)
	}
	// Another user's turns must not leak into the window.
	_, err := s.Append(8, "other", "user")
	require.NoError(t, err)

	turns, err := s.Recent(7, 5)
	require.NoError(t, err)
	require.Len(t, turns, 5)

	// Oldest of the window first: q4..q8.
	for i, tn := range turns {
		require.Equal(t, fmt.Sprintf("q%d", i+4), tn.Input)
		require.Equal(t, fmt.Sprintf("a%d", i+4), tn.Output)
		require.EqualValues(t, 7, tn.UserID)
	}
	for i := 1; i < len(turns); i++ {
		require.Greater(t, turns[i].ID, turns[i-1].ID)
	}
}

func TestAppendRecentRoundTrip(t *testing.T) {
	s := testStore(t)

	in := "what is\na multiline question?"
	out := "an answer with 'quotes' and \"more\""
	_, err := s.Append(3, in, out)
	require.NoError(t, err)

	turns, err := s.Recent(3, 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.Equal(t, in, turns[0].Input)
	require.Equal(t, out, turns[0].Output)
}

func TestRecentZeroLimit(t *testing.T) {
	s := testStore(t)

	_, err := s.Append(1, "hi", "yo")
	require.NoError(t, err)

	turns, err := s.Recent(1, 0)
	require.NoError(t, err)
	require.Empty(t, turns)
}
