package geo

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJitterDeterministic(t *testing.T) {
	origin := Coordinate{Lat: 60.1699, Lon: 24.9384}

	first := Jitter(origin, "civilian-123")
	second := Jitter(origin, "civilian-123")

	assert.Equal(t, first, second)
}

func TestJitterOffsetBounded(t *testing.T) {
	origin := Coordinate{Lat: 60.1699, Lon: 24.9384}

	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("civilian-%d", i)
		jittered := Jitter(origin, id)

		assert.LessOrEqual(t, math.Abs(jittered.Lat-origin.Lat), MaxOffsetDegrees, "lat offset for %s", id)
		assert.LessOrEqual(t, math.Abs(jittered.Lon-origin.Lon), MaxOffsetDegrees, "lon offset for %s", id)
	}
}

func TestJitterDistinctIDsDiffer(t *testing.T) {
	origin := Coordinate{Lat: 60.1699, Lon: 24.9384}

	a := Jitter(origin, "civilian-a")
	b := Jitter(origin, "civilian-b")

	assert.NotEqual(t, a, b)
}

func TestJitterActuallyMoves(t *testing.T) {
	origin := Coordinate{Lat: 60.1699, Lon: 24.9384}
	moved := 0
	for i := 0; i < 100; i++ {
		j := Jitter(origin, fmt.Sprintf("id-%d", i))
		if j.Lat != origin.Lat || j.Lon != origin.Lon {
			moved++
		}
	}
	assert.Equal(t, 100, moved)
}
