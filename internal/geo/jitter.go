// Package geo provides the deterministic location obfuscation applied to
// anonymized search results. The offset is a pure function of a stable
// per-civilian identifier, so a marker never jumps between searches while
// still masking the exact coordinate.
package geo

import (
	"crypto/sha256"
	"encoding/binary"
)

// MaxOffsetDegrees bounds the jitter per axis (~1 km at Nordic latitudes).
const MaxOffsetDegrees = 0.01

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Jitter returns c displaced by a deterministic offset derived from stableID.
// The first half of the identifier hash drives the latitude offset and the
// second half the longitude offset, each uniform in ±MaxOffsetDegrees.
// Must not be applied to views where PII is revealed.
func Jitter(c Coordinate, stableID string) Coordinate {
	sum := sha256.Sum256([]byte(stableID))
	return Coordinate{
		Lat: c.Lat + offset(sum[:8]),
		Lon: c.Lon + offset(sum[8:16]),
	}
}

// offset maps 8 hash bytes to a value uniform in ±MaxOffsetDegrees.
func offset(b []byte) float64 {
	n := binary.BigEndian.Uint64(b)
	unit := float64(n) / float64(^uint64(0)) // [0, 1]
	return (unit*2 - 1) * MaxOffsetDegrees
}
