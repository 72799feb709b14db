package session

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundLimit(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		available int
		want      RoundLimit
		wantHint  string
	}{
		{name: "empty means all", input: "", available: 10, want: Unbounded()},
		{name: "all", input: "ALL", available: 10, want: Unbounded()},
		{name: "unlimited", input: " unlimited ", available: 10, want: Unbounded()},
		{name: "number", input: " 5 ", available: 10, want: LimitOf(5)},
		{name: "equal to song count", input: "10", available: 10, want: LimitOf(10)},
		{name: "clamped to song count", input: "50", available: 10, want: LimitOf(10)},
		{name: "not clamped when count unknown", input: "50", available: 0, want: LimitOf(50)},
		{name: "not a number", input: "lots", available: 10, wantHint: "whole number"},
		{name: "zero", input: "0", available: 10, wantHint: "at least 1"},
		{name: "negative", input: "-3", available: 10, wantHint: "at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRoundLimit(tt.input, tt.available)
			if tt.wantHint != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRoundLimit))
				assert.Contains(t, HintOf(err), tt.wantHint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundLimit(t *testing.T) {
	assert.False(t, Unbounded().Bounded())
	assert.Equal(t, Unbounded(), LimitOf(0))
	assert.Equal(t, Unbounded(), LimitOf(-1))

	l := LimitOf(3)
	assert.True(t, l.Bounded())
	assert.Equal(t, 3, l.Max())
	assert.True(t, l.Allows(3))
	assert.False(t, l.Allows(4))
	assert.True(t, Unbounded().Allows(1000))

	assert.Equal(t, "3 rounds", l.String())
	assert.Equal(t, "1 round", LimitOf(1).String())
	assert.Equal(t, "all songs", Unbounded().String())
}

func TestLimitOptions(t *testing.T) {
	opts := LimitOptions([]int{20, 5, 10, 5}, 12)
	require.Len(t, opts, 3)
	assert.Equal(t, LimitOption{Label: "5 rounds", Limit: LimitOf(5)}, opts[0])
	assert.Equal(t, LimitOption{Label: "10 rounds", Limit: LimitOf(10)}, opts[1])
	assert.Equal(t, LimitOption{Label: "All songs (12)", Limit: Unbounded()}, opts[2])

	// A preset equal to the song count is the same as "all"
	opts = LimitOptions([]int{5, 10}, 5)
	require.Len(t, opts, 1)
	assert.False(t, opts[0].Limit.Bounded())

	opts = LimitOptions(nil, 3)
	require.Len(t, opts, 1)
	assert.Equal(t, "All songs (3)", opts[0].Label)
}
