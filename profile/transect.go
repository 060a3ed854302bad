/*package profile extracts depth profiles along geodesic transects through a
gridded raster.

Each transect starts at a source point and ends at a receiver point. Samples
are spaced evenly in metres along the geodesic between them and their depths
are found by bi-linear interpolation. If the samples are spaced more
coarsely than the raster, the raster is low-pass filtered first so that
features smaller than the sample spacing do not alias into the profile.
*/
package profile

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/bathyprof/geo"
)

var (
	ErrInvalidSourceCount = errors.New("profile: exactly one source point is required")
	ErrInvalidRangeCount  = errors.New("profile: exactly one range is required")
)

// Sample is a single point along a transect. Distance is measured in metres
// from the source.
type Sample struct {
	Lon, Lat, Distance, Depth float64
}

// Transect is a geodesic from a source to a receiver. Azimuth is the
// direction of the geodesic at the source in degrees clockwise from north
// and Range is its length in metres. Samples is filled in by Extract.
type Transect struct {
	Source, Receiver geo.Point
	Azimuth, Range   float64
	Samples          []Sample
}

// Len returns the number of samples in the transect.
func (t *Transect) Len() int { return len(t.Samples) }

// Depths returns the depths of the transect's samples.
func (t *Transect) Depths() []float64 {
	out := make([]float64, len(t.Samples))
	for i := range t.Samples {
		out[i] = t.Samples[i].Depth
	}
	return out
}

// BuildTransects creates one transect for each azimuth, starting at the
// source and ending after travelling the given range. Exactly one source and
// one range must be supplied.
func BuildTransects(
	g geo.Geodesy, sources []geo.Point, azimuths, ranges []float64,
) ([]Transect, error) {
	if len(sources) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSourceCount, len(sources))
	}
	if len(ranges) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRangeCount, len(ranges))
	}
	if !(ranges[0] > 0) {
		return nil, fmt.Errorf("profile: range must be positive, got %g", ranges[0])
	}

	src, n := sources[0], len(azimuths)
	lat1, lon1, s12 := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range azimuths {
		lat1[i], lon1[i], s12[i] = src.Lat, src.Lon, ranges[0]
	}
	lat2, lon2, _, err := geo.DirectAll(g, lat1, lon1, azimuths, s12)
	if err != nil {
		return nil, err
	}

	out := make([]Transect, n)
	for i := range out {
		out[i] = Transect{
			Source:   src,
			Receiver: geo.Point{Lon: lon2[i], Lat: lat2[i]},
			Azimuth:  azimuths[i],
			Range:    ranges[0],
		}
	}
	return out, nil
}
