package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayout = LayoutConfig{
	CardWidth:  220,
	CardHeight: 90,
	ColumnGap:  80,
	RowGap:     20,
}

func TestComputePosition(t *testing.T) {
	testCases := []struct {
		name        string
		round, slot int
		x, y        float64
	}{
		{name: "round 1 slot 0", round: 1, slot: 0, x: 0, y: 10},
		{name: "round 1 slot 1", round: 1, slot: 1, x: 0, y: 120},
		{name: "round 1 slot 3", round: 1, slot: 3, x: 0, y: 340},
		{name: "round 2 slot 0", round: 2, slot: 0, x: 300, y: 65},
		{name: "round 2 slot 1", round: 2, slot: 1, x: 300, y: 285},
		{name: "round 3 slot 0", round: 3, slot: 0, x: 600, y: 175},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pos := ComputePosition(testLayout, tc.round, tc.slot)
			assert.InDelta(t, tc.x, pos.X, 1e-9)
			assert.InDelta(t, tc.y, pos.Y, 1e-9)
		})
	}
}

// The doubling spacing must center a parent slot on the midpoint of its two
// children, at any depth.
func TestSiblingMidpointAlignsWithParent(t *testing.T) {
	for round := 1; round <= 5; round++ {
		slots := 1 << uint(5-round)
		for slot := 0; slot+1 < slots; slot += 2 {
			childA := ComputePosition(testLayout, round, slot)
			childB := ComputePosition(testLayout, round, slot+1)
			parent := ComputePosition(testLayout, round+1, slot/2)

			childMid := (centerY(childA) + centerY(childB)) / 2
			assert.InDelta(t, centerY(parent), childMid, 1e-9,
				"round=%d slot=%d", round, slot)
		}
	}
}

func centerY(p Point) float64 {
	return p.Y + testLayout.CardHeight/2
}

func TestComputeConnector(t *testing.T) {
	connector, ok := ComputeConnector(testLayout, 1, 0, 3)
	require.True(t, ok)

	// Right edge midpoint of (round 1, slot 0).
	assert.InDelta(t, 220.0, connector.Start.X, 1e-9)
	assert.InDelta(t, 55.0, connector.Start.Y, 1e-9)

	// Left edge midpoint of the parent (round 2, slot 0).
	assert.InDelta(t, 300.0, connector.End.X, 1e-9)
	assert.InDelta(t, 110.0, connector.End.Y, 1e-9)

	// Control points sit halfway across the column gap.
	assert.InDelta(t, 260.0, connector.Control1.X, 1e-9)
	assert.InDelta(t, connector.Start.Y, connector.Control1.Y, 1e-9)
	assert.InDelta(t, 260.0, connector.Control2.X, 1e-9)
	assert.InDelta(t, connector.End.Y, connector.Control2.Y, 1e-9)
}

func TestComputeConnectorSiblingsShareEndpoint(t *testing.T) {
	a, ok := ComputeConnector(testLayout, 2, 2, 4)
	require.True(t, ok)
	b, ok := ComputeConnector(testLayout, 2, 3, 4)
	require.True(t, ok)

	assert.Equal(t, a.End, b.End)
}

func TestComputeConnectorFinalRoundHasNoParent(t *testing.T) {
	_, ok := ComputeConnector(testLayout, 3, 0, 3)
	assert.False(t, ok)
	_, ok = ComputeConnector(testLayout, 4, 0, 3)
	assert.False(t, ok)
}
