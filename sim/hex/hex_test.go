package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighbors_FixedOrder(t *testing.T) {
	got := Neighbors(Coord{Q: 2, R: -1})
	want := []Coord{
		{Q: 3, R: -1},
		{Q: 3, R: -2},
		{Q: 2, R: -2},
		{Q: 1, R: -1},
		{Q: 1, R: 0},
		{Q: 2, R: 0},
	}
	for i, n := range got {
		assert.Equal(t, want[i], n.Coord, "neighbor %d", i)
		assert.Equal(t, Direction(i), n.Dir)
	}
}

func TestNeighbors_AllAtDistanceOne(t *testing.T) {
	c := Coord{Q: -3, R: 5}
	for _, n := range Neighbors(c) {
		assert.Equal(t, 1, Distance(c, n.Coord))
		assert.True(t, Adjacent(c, n.Coord))
	}
}

func TestOpposite_ThroughCenter(t *testing.T) {
	center := Coord{Q: 0, R: 0}
	for _, n := range Neighbors(center) {
		opp := Opposite(center, n.Coord)
		// BDD: opposite of direction d is direction d+3
		want := Neighbors(center)[(int(n.Dir)+3)%6].Coord
		assert.Equal(t, want, opp)
	}
}

func TestAdjacent_NonNeighbors(t *testing.T) {
	assert.False(t, Adjacent(Coord{}, Coord{}))
	assert.False(t, Adjacent(Coord{}, Coord{Q: 2, R: 0}))
	assert.False(t, Adjacent(Coord{}, Coord{Q: 1, R: 1}))
}

func TestKey_RoundTrip(t *testing.T) {
	tests := []struct {
		c   Coord
		key string
	}{
		{Coord{Q: 0, R: 0}, "0,0"},
		{Coord{Q: -4, R: 7}, "-4,7"},
		{Coord{Q: 12, R: -3}, "12,-3"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.c.Key())
			parsed, err := ParseKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.c, parsed)
		})
	}
}

func TestParseKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "1", "1,2,3", "a,1", "1,b"} {
		_, err := ParseKey(key)
		assert.Error(t, err, "key %q", key)
	}
}
