package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsRoundTrip(t *testing.T) {
	assert.Nil(t, Seconds(nil))
	assert.Nil(t, FromSeconds(nil))

	s := int64(1700000000)
	ts := FromSeconds(&s)
	require.NotNil(t, ts)
	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, s, *Seconds(ts))

	negative := int64(-86400)
	assert.Equal(t, negative, *Seconds(FromSeconds(&negative)))
}

func TestSecondsDropsSubSecond(t *testing.T) {
	ts := time.Unix(1700000000, 999_000_000)
	assert.Equal(t, int64(1700000000), *Seconds(&ts))
}

func TestSameSecond(t *testing.T) {
	a := time.Unix(1700000000, 0)
	b := time.Unix(1700000000, 500_000_000)
	c := time.Unix(1700000001, 0)

	assert.True(t, SameSecond(nil, nil))
	assert.True(t, SameSecond(&a, &b))
	assert.False(t, SameSecond(&a, &c))
	assert.False(t, SameSecond(&a, nil))
	assert.False(t, SameSecond(nil, &a))
}
