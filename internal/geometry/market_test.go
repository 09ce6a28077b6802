package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestAssignMarket(t *testing.T) {
	// Baixa, central Lisbon
	assert.Equal(t, "lisbon", AssignMarket(38.7100, -9.1360))
	// Ribeira, Porto
	assert.Equal(t, "porto", AssignMarket(41.1408, -8.6110))
	// Albufeira beach strip
	assert.Equal(t, "algarve", AssignMarket(37.0880, -8.2500))
}

func TestConvexHullSquare(t *testing.T) {
	points := []orb.Point{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
		{0.5, 0.5}, // interior point must not appear in the hull
	}

	hull := convexHull(points)
	assert.NotNil(t, hull)
	assert.Len(t, hull, 5) // 4 corners plus the closing point
	assert.Equal(t, hull[0], hull[len(hull)-1])

	for _, p := range hull {
		assert.NotEqual(t, orb.Point{0.5, 0.5}, p)
	}
}

func TestConvexHullDegenerate(t *testing.T) {
	assert.Nil(t, convexHull([]orb.Point{{0, 0}, {1, 1}}))
	// Collinear points have no area
	assert.Nil(t, convexHull([]orb.Point{{0, 0}, {1, 1}, {2, 2}}))
}

func TestConvexHullDoesNotMutateInput(t *testing.T) {
	points := []orb.Point{{1, 1}, {0, 0}, {1, 0}, {0, 1}}
	convexHull(points)
	assert.Equal(t, orb.Point{1, 1}, points[0])
}
