package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantauth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewParses(t *testing.T) {
	id := idx.New()

	parsed, err := idx.Parse(" " + id.String() + " ")
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
	}
}

func TestSortsByCreation(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := idx.NewAt(at)
	second := idx.NewAt(at)
	later := idx.NewAt(at.Add(time.Second))

	require.Less(t, first.String(), second.String(), "same millisecond stays monotonic")
	require.Less(t, second.String(), later.String())
}

func TestTime(t *testing.T) {
	at := time.UnixMilli(1772366400123).UTC()

	require.True(t, at.Equal(idx.NewAt(at).Time()))
	require.True(t, idx.ID("").Time().IsZero())
}
