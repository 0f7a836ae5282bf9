package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etekin/blade/symbology"
)

func edge(polarity, prevPos, prevNeg int) DetectedEdge {
	return DetectedEdge{Polarity: polarity, PrevPositiveCount: prevPos, PrevNegativeCount: prevNeg}
}

func TestCandidateSetsMatchesByPrefixCountWindow(t *testing.T) {
	// Two positive-polarity fixed edges, two detected positive edges:
	// with zero slack (equal counts) each fixed edge should match
	// exactly the detected edge at the same prefix count.
	fixed := []symbology.Edge{{Index: 1, Location: 0}, {Index: 3, Location: 10}}
	edges := []DetectedEdge{edge(1, 0, 0), edge(1, 1, 0)}

	sets := candidateSets(edges, fixed)
	require.Len(t, sets, 2)
	require.Len(t, sets[0], 1)
	require.Len(t, sets[1], 1)
	assert.Equal(t, 0, sets[0][0].PrevPositiveCount)
	assert.Equal(t, 1, sets[1][0].PrevPositiveCount)
}

func TestCandidateSetsPositiveSlackWidensWindow(t *testing.T) {
	// One fixed positive edge, three detected positive edges: slack=2
	// means every detected edge is a candidate for the single fixed edge.
	fixed := []symbology.Edge{{Index: 1, Location: 0}}
	edges := []DetectedEdge{edge(1, 0, 0), edge(1, 1, 0), edge(1, 2, 0)}

	sets := candidateSets(edges, fixed)
	require.Len(t, sets, 1)
	assert.Len(t, sets[0], 3)
}

func TestCandidateSetsNegativeSlackYieldsNoCandidates(t *testing.T) {
	// Two fixed positive edges but only one detected positive edge:
	// slack=-1 shrinks every window below its own lower bound.
	fixed := []symbology.Edge{{Index: 1, Location: 0}, {Index: 3, Location: 10}}
	edges := []DetectedEdge{edge(1, 0, 0)}

	sets := candidateSets(edges, fixed)
	require.Len(t, sets, 2)
	assert.Empty(t, sets[0])
	assert.Empty(t, sets[1])
}

func TestCandidateSetsSeparatesPolarities(t *testing.T) {
	fixed := []symbology.Edge{{Index: 1, Location: 0}, {Index: 2, Location: 5}}
	edges := []DetectedEdge{edge(1, 0, 0), edge(-1, 0, 0)}

	sets := candidateSets(edges, fixed)
	require.Len(t, sets, 2)
	require.Len(t, sets[0], 1)
	assert.Equal(t, 1, sets[0][0].Polarity)
	require.Len(t, sets[1], 1)
	assert.Equal(t, -1, sets[1][0].Polarity)
}

func TestLocalizeFixedEdgesFailsWhenAnyCandidateSetIsEmpty(t *testing.T) {
	fixed := []symbology.Edge{{Index: 0, Location: 0}, {Index: 1, Location: 10}}
	var edges []DetectedEdge // no detected edges at all
	_, ok := localizeFixedEdges(edges, fixed, DefaultOptions())
	assert.False(t, ok)
}
