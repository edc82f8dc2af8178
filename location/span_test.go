package location_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelflux/sdlc/location"
)

func TestSpanZero(t *testing.T) {
	var s location.Span
	assert.True(t, s.IsZero())
	assert.Equal(t, "<no location>", s.String())
}

func TestPoint(t *testing.T) {
	s := location.Point("m::main", 3, 7)
	assert.False(t, s.IsZero())
	assert.Equal(t, s.Start, s.End)
	assert.Equal(t, "m::main:3:7", s.String())
}

func TestRange(t *testing.T) {
	s := location.Range("m::main", 1, 1, 2, 5)
	require.False(t, s.IsZero())
	assert.Equal(t, 1, s.Start.Line)
	assert.Equal(t, 2, s.End.Line)
}

func TestRangePanicsOnInvertedRange(t *testing.T) {
	assert.Panics(t, func() {
		location.Range("m::main", 5, 1, 1, 1)
	})
}
