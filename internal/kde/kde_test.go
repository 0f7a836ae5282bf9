package kde

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKDESymmetricAroundSingleVote(t *testing.T) {
	votes := []Vote{{Loc: 5, Weight: 1}}
	kernel := NewGaussianD(1)
	assert.InDelta(t, KDE(votes, 3, kernel), KDE(votes, 7, kernel), 1e-9)
}

func TestMeanShiftConvergesToWeightedMean(t *testing.T) {
	votes := []Vote{
		{Loc: 0, Weight: 1},
		{Loc: 10, Weight: 1},
		{Loc: 5, Weight: 1},
	}
	kernel := NewGaussianD(16)
	out := MeanShift(votes, kernel, nil)
	for _, v := range out {
		assert.InDelta(t, 5, v.Loc, 0.5)
	}
}

func TestGaussianRotWrapsAround(t *testing.T) {
	kernel := NewGaussianRot(1, 9)
	// An offset of 17 on a period-18 domain is equivalent to an offset
	// of 1 the other way around.
	assert.InDelta(t, kernel.Value(1), kernel.Value(17), 1e-9)
}

func TestFoldWrapsIntoPeriod(t *testing.T) {
	fold := Fold(18)
	assert.InDelta(t, 1, fold(19), 1e-9)
	assert.InDelta(t, 17, fold(-1), 1e-9)
	assert.InDelta(t, 0, fold(18), 1e-9)
}

func TestAngularMeanShiftFoldsAcrossWrap(t *testing.T) {
	period := 18.0
	votes := []Vote{
		{Loc: 17, Weight: 1},
		{Loc: 1, Weight: 1},
	}
	kernel := NewGaussianRot(1, period/2)
	dist := AngularDistance(period)
	out := MeanShift(votes, kernel, Fold(period))
	// The two seeds straddle the wrap point (17 and 1 are 2 apart going
	// through 0); mean-shift should pull them together near 0, not
	// towards the arithmetic mean of 9.
	for _, v := range out {
		assert.Less(t, dist(v.Loc, 0), 2.0)
	}
}

func TestFindClusterCentersAgglomeratesWithinRadius(t *testing.T) {
	data := []Vote{
		{Loc: 0, Weight: 1},
		{Loc: 0.4, Weight: 1},
		{Loc: 10, Weight: 1},
	}
	centers := FindClusterCenters(data, 1.0, LinearDistance)
	assert.Len(t, centers, 2)
	assert.InDelta(t, 0.2, centers[0].Loc, 1e-9)
	assert.InDelta(t, 2, centers[0].Weight, 1e-9)
	assert.InDelta(t, 10, centers[1].Loc, 1e-9)
}

func TestMeanShiftPointConvergesToWeightedCentroid(t *testing.T) {
	votes := []PointVote{
		{Loc: [2]float64{0, 0}, Weight: 1},
		{Loc: [2]float64{10, 0}, Weight: 1},
		{Loc: [2]float64{5, 0}, Weight: 1},
	}
	kernel := NewGaussianPt(16)
	out := MeanShiftPoint(votes, kernel)
	for _, v := range out {
		assert.InDelta(t, 5, v.Loc[0], 0.75)
		assert.InDelta(t, 0, v.Loc[1], 1e-6)
	}
}

func TestFindClusterCentersPointAgglomerates(t *testing.T) {
	data := []PointVote{
		{Loc: [2]float64{0, 0}, Weight: 1},
		{Loc: [2]float64{1, 0}, Weight: 1},
		{Loc: [2]float64{50, 50}, Weight: 1},
	}
	centers := FindClusterCentersPoint(data, 5)
	assert.Len(t, centers, 2)
}

func TestGaussianDIsMaximalAtZero(t *testing.T) {
	kernel := NewGaussianD(2)
	assert.Greater(t, kernel.Value(0), kernel.Value(1))
	assert.True(t, math.IsInf(kernel.Value(1e9), 0) == false)
}
