package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 {
	return &v
}

func TestNormalizeSeries_Range(t *testing.T) {
	scores := NormalizeSeries([]*float64{fp(10), fp(55), fp(100)}, false)

	assert.Len(t, scores, 3)
	assert.Equal(t, 0.0, *scores[0])
	assert.Equal(t, 100.0, *scores[2])
	for _, s := range scores {
		assert.NotNil(t, s)
		assert.GreaterOrEqual(t, *s, 0.0)
		assert.LessOrEqual(t, *s, 100.0)
	}
}

func TestNormalizeSeries_Invert(t *testing.T) {
	scores := NormalizeSeries([]*float64{fp(10), fp(100)}, true)

	// Low input scores high when inverted
	assert.Equal(t, 100.0, *scores[0])
	assert.Equal(t, 0.0, *scores[1])
}

func TestNormalizeSeries_ConstantSeries(t *testing.T) {
	scores := NormalizeSeries([]*float64{fp(5), fp(5), fp(5)}, false)

	// Degenerate range maps every valid value to the midpoint
	for _, s := range scores {
		assert.NotNil(t, s)
		assert.Equal(t, 50.0, *s)
	}
}

func TestNormalizeSeries_Empty(t *testing.T) {
	assert.Empty(t, NormalizeSeries(nil, false))
	assert.Empty(t, NormalizeSeries([]*float64{}, false))
}

func TestNormalizeSeries_InvalidEntries(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	scores := NormalizeSeries([]*float64{fp(10), nil, &nan, &inf, fp(20)}, false)

	assert.Len(t, scores, 5)
	assert.Equal(t, 0.0, *scores[0])
	assert.Nil(t, scores[1])
	assert.Nil(t, scores[2])
	assert.Nil(t, scores[3])
	assert.Equal(t, 100.0, *scores[4])
}

func TestNormalizeSeries_AllInvalid(t *testing.T) {
	nan := math.NaN()
	scores := NormalizeSeries([]*float64{nil, &nan}, false)

	assert.Len(t, scores, 2)
	assert.Nil(t, scores[0])
	assert.Nil(t, scores[1])
}

func TestNormalizeSeries_ConstantWithInvalid(t *testing.T) {
	scores := NormalizeSeries([]*float64{fp(7), nil, fp(7)}, true)

	assert.Equal(t, 50.0, *scores[0])
	assert.Nil(t, scores[1])
	assert.Equal(t, 50.0, *scores[2])
}
