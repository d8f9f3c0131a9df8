package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteMidRangeWithTraffic(t *testing.T) {
	q, err := Quote(25, 35)
	require.NoError(t, err)

	assert.Equal(t, "21-30 miles", q.Bracket)
	assert.Equal(t, int64(5500), q.BaseCents)
	assert.Equal(t, float64(0), q.ExtraMiles)
	assert.Equal(t, int64(0), q.ExtraChargeCents)
	assert.Equal(t, int64(375), q.TrafficSurchargeCents)
	assert.Equal(t, int64(5875), q.TotalCents)
}

func TestQuoteBoundaryBelongsToLowerBracket(t *testing.T) {
	q, err := Quote(5, 0)
	require.NoError(t, err)
	assert.Equal(t, "0-5 miles", q.Bracket)
	assert.Equal(t, int64(2500), q.TotalCents)

	q, err = Quote(5.01, 0)
	require.NoError(t, err)
	assert.Equal(t, "6-10 miles", q.Bracket)
	assert.Equal(t, int64(3500), q.TotalCents)
}

func TestQuoteNoSurchargeUpToTwentyMinutes(t *testing.T) {
	q, err := Quote(10, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.TrafficSurchargeCents)

	q, err = Quote(10, 21)
	require.NoError(t, err)
	assert.Equal(t, int64(25), q.TrafficSurchargeCents)
}

func TestQuoteZeroInput(t *testing.T) {
	q, err := Quote(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "0-5 miles", q.Bracket)
	assert.Equal(t, int64(2500), q.TotalCents)
}

func TestQuoteBeyondScheduleUncapped(t *testing.T) {
	q, err := Quote(1200, 0)
	require.NoError(t, err)
	assert.Equal(t, "501-1,000 miles", q.Bracket)
	assert.Equal(t, float64(200), q.ExtraMiles)
	assert.Equal(t, int64(60000), q.ExtraChargeCents)
	assert.Equal(t, int64(225000), q.TotalCents)
}

func TestQuoteNegativeInput(t *testing.T) {
	_, err := Quote(-1, 10)
	assert.ErrorIs(t, err, ErrNegativeQuoteInput)

	_, err = Quote(10, -1)
	assert.ErrorIs(t, err, ErrNegativeQuoteInput)
}

func TestQuoteDeterministic(t *testing.T) {
	a, err := Quote(42.5, 61)
	require.NoError(t, err)
	b, err := Quote(42.5, 61)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestQuoteMonotonicInDistance(t *testing.T) {
	var prev int64
	for d := 0.0; d <= 1200; d += 2.5 {
		q, err := Quote(d, 30)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.TotalCents, prev, "total decreased at %f miles", d)
		prev = q.TotalCents
	}
}
