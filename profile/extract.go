package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/bathyprof/geo"
	"github.com/phil-mansfield/bathyprof/grid"
	"github.com/phil-mansfield/bathyprof/mask"
	"github.com/phil-mansfield/bathyprof/math/interpolate"
)

// MetersPerDegree is the length of one degree of arc along the equator of
// the WGS84 ellipsoid.
const MetersPerDegree = 111319.49

var (
	ErrOutOfBounds = errors.New("profile: transect is outside the raster")
	ErrInvalidMode = errors.New("profile: invalid transect mode")
	ErrInvalidStep = errors.New("profile: invalid range step")
)

// OutOfBoundsError reports the extent a set of transects needs and the
// extent the raster covers.
type OutOfBoundsError struct {
	Need, Have geo.Extent
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"%s: transects need %s, but the raster covers %s",
		ErrOutOfBounds, e.Need, e.Have,
	)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// Mode is the rule used to space samples along a transect.
type Mode int

const (
	// Normal samples are separated by exactly the range step. The last
	// sample may fall short of the receiver.
	Normal Mode = iota
	// Adjust shrinks or stretches the range step so that the last sample
	// lands on the receiver.
	Adjust
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Adjust:
		return "adjust"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name, as returned by Mode.String(), into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "normal":
		return Normal, nil
	case "adjust":
		return Adjust, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Config controls Extract.
type Config struct {
	// RangeStep is the distance between samples in metres.
	RangeStep float64
	Mode      Mode
	// Precision is the number of decimal digits used when comparing
	// coordinates and sample counts.
	Precision   int
	Attenuation mask.Attenuation
	Family      mask.Family
	// MaxPoints is a soft limit on the number of samples in a transect. Zero
	// means no limit.
	MaxPoints int
	// Workers is the number of transects extracted concurrently.
	Workers int
}

// DefaultConfig returns a configuration with 100 m steps in Normal mode.
func DefaultConfig() Config {
	return Config{
		RangeStep:   100,
		Mode:        Normal,
		Precision:   12,
		Attenuation: mask.Minus6dB,
		Family:      mask.Rect,
		MaxPoints:   0,
		Workers:     1,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if !(c.RangeStep > 0) || math.IsInf(c.RangeStep, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidStep, c.RangeStep)
	}
	if c.Mode != Normal && c.Mode != Adjust {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(c.Mode))
	}
	if c.Precision < 0 {
		return fmt.Errorf("profile: precision must be non-negative, got %d", c.Precision)
	}
	if c.MaxPoints < 0 {
		return fmt.Errorf("profile: MaxPoints must be non-negative, got %d", c.MaxPoints)
	}
	if c.Workers < 1 {
		return fmt.Errorf("profile: Workers must be positive, got %d", c.Workers)
	}
	return mask.Check(c.Family, c.Attenuation)
}

// DiagnosticKind identifies an advisory condition found during extraction.
type DiagnosticKind int

const (
	// PointCountExceeded means a transect has more samples than
	// Config.MaxPoints.
	PointCountExceeded DiagnosticKind = iota
)

func (k DiagnosticKind) String() string {
	switch k {
	case PointCountExceeded:
		return "point count exceeded"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is an advisory message about a single transect. It never
// indicates that the result is incomplete.
type Diagnostic struct {
	Kind     DiagnosticKind
	Transect int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("transect %d: %s: %s", d.Transect, d.Kind, d.Message)
}

// Result holds the output of Extract. Filtered is true if the raster was
// low-pass filtered before sampling, in which case MaskRows and MaskCols give
// the size of the mask.
type Result struct {
	Transects          []Transect
	Filtered           bool
	MaskRows, MaskCols int
	Diagnostics        []Diagnostic
}

// plan holds the sample positions of a single transect before depths are
// known.
type plan struct {
	lons, lats, dists []float64
}

// Extract samples the raster z, defined on the grid (x, y), along each
// transect and returns copies of the transects with their Samples filled in.
func Extract(
	g geo.Geodesy, x, y, z *mat64.Dense, transects []Transect, cfg Config,
) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := cfg.Precision

	xr, xc := x.Dims()
	yr, yc := y.Dims()
	zr, zc := z.Dims()
	if xr != yr || xr != zr || xc != yc || xc != zc {
		return nil, fmt.Errorf(
			"%w: X is %d x %d, Y is %d x %d, and Z is %d x %d",
			grid.ErrInvalidShape, xr, xc, yr, yc, zr, zc,
		)
	}
	if ok, d := grid.IsGrid(x, y, r); !ok {
		return nil, fmt.Errorf("%w: %s", grid.ErrNotAGrid, d)
	}

	xAxis, yAxis := grid.Axis(x, grid.Horizontal), grid.Axis(y, grid.Vertical)
	rows, cols := len(yAxis), len(xAxis)
	have := geo.Extent{
		West: xAxis[0], East: xAxis[cols-1],
		South: yAxis[rows-1], North: yAxis[0],
	}
	conv := geo.Positive
	if floats.Min(xAxis) < 0 {
		conv = geo.Signed
	}

	// The raw raster decides coverage. Filtering never changes it.
	in, err := grid.NewInterpolator(xAxis, yAxis, z, r)
	if err != nil {
		return nil, err
	}
	if err := checkEndpoints(in, transects, have, r); err != nil {
		return nil, err
	}

	plans := make([]plan, len(transects))
	for i := range transects {
		plans[i] = layout(g, &transects[i], cfg)
	}

	res := &Result{Transects: make([]Transect, len(transects))}

	gres0, _ := grid.ResolutionStep(xAxis, grid.Horizontal, r)
	if fs, ok := targetFrequencies(plans, 1/gres0, cfg.RangeStep); ok {
		m, err := mask.Build(1/gres0, fs, cfg.Attenuation, cfg.Family)
		if err != nil {
			return nil, err
		}
		if !m.IsIdentity() {
			res.Filtered, res.MaskRows, res.MaskCols = true, m.Rows, m.Cols
			if in, err = filtered(xAxis, yAxis, z, m, gres0, r); err != nil {
				return nil, err
			}
		}
	}

	eg := &errgroup.Group{}
	eg.SetLimit(cfg.Workers)
	for i := range transects {
		eg.Go(func() error {
			t, err := sample(in, &transects[i], &plans[i], conv, have, r)
			if err != nil {
				return fmt.Errorf("transect %d: %w", i, err)
			}
			res.Transects[i] = t
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if cfg.MaxPoints > 0 {
		for i := range res.Transects {
			if n := res.Transects[i].Len(); n > cfg.MaxPoints {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Kind:     PointCountExceeded,
					Transect: i,
					Message: fmt.Sprintf(
						"%d samples exceeds the maximum of %d", n, cfg.MaxPoints,
					),
				})
			}
		}
	}

	return res, nil
}

func checkEndpoints(
	in *grid.Interpolator, transects []Transect, have geo.Extent, r int,
) error {
	lons := make([]float64, 0, 2*len(transects))
	lats := make([]float64, 0, 2*len(transects))
	inside := true
	for _, t := range transects {
		for _, p := range []geo.Point{t.Source, t.Receiver} {
			lons, lats = append(lons, p.Lon), append(lats, p.Lat)
			inside = inside && in.Contains(p.Lon, p.Lat)
		}
	}
	if inside {
		return nil
	}
	need, err := geo.Bounds(lons, lats, r)
	if err != nil {
		return err
	}
	return &OutOfBoundsError{Need: need, Have: have}
}

// layout places the samples of a transect along its geodesic.
func layout(g geo.Geodesy, t *Transect, cfg Config) plan {
	src, rcv := t.Source, t.Receiver
	dist, azi, _ := g.Inverse(src.Lat, src.Lon, rcv.Lat, rcv.Lon)

	var n int
	step := cfg.RangeStep
	switch cfg.Mode {
	case Normal:
		n = int(math.Floor(floats.Round(dist/step, cfg.Precision))) + 1
	case Adjust:
		n = int(math.Round(dist/step)) + 1
		if n < 2 {
			n = 2
		}
		step = dist / float64(n-1)
	}

	p := plan{
		lons: make([]float64, n), lats: make([]float64, n),
		dists: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p.dists[i] = step * float64(i)
		p.lats[i], p.lons[i], _ = g.Direct(src.Lat, src.Lon, azi, p.dists[i])
	}
	p.lats[0], p.lons[0] = src.Lat, src.Lon
	if cfg.Mode == Adjust {
		p.dists[n-1] = dist
		p.lats[n-1], p.lons[n-1] = rcv.Lat, rcv.Lon
	}
	return p
}

// MaxFilterLat is the largest absolute latitude used when estimating the
// longitude sampling frequency of a transect. Degrees of longitude vanish at
// the poles, which would otherwise call for an unbounded mask.
const MaxFilterLat = 89.0

func clampLat(lat float64) float64 {
	return math.Max(-MaxFilterLat, math.Min(MaxFilterLat, lat))
}

// targetFrequencies returns the sampling frequencies, in samples per degree,
// of the latitude and longitude axes implied by a metric range step. ok is
// false if neither is coarser than the raster's frequency fs0. Longitude
// frequencies shrink with cos(lat), so they are estimated at the most
// southern and most northern samples and averaged.
func targetFrequencies(
	plans []plan, fs0, rangeStep float64,
) (fs []float64, ok bool) {
	south, north := math.Inf(+1), math.Inf(-1)
	for _, p := range plans {
		if len(p.lats) == 0 {
			continue
		}
		south = math.Min(south, floats.Min(p.lats))
		north = math.Max(north, floats.Max(p.lats))
	}
	if math.IsInf(south, 0) {
		return nil, false
	}

	fsLat := MetersPerDegree / rangeStep
	fsSouth := fsLat * math.Cos(clampLat(south)*math.Pi/180)
	fsNorth := fsLat * math.Cos(clampLat(north)*math.Pi/180)
	if fsLat >= fs0 && fsSouth >= fs0 && fsNorth >= fs0 {
		return nil, false
	}

	fsLon := (fsSouth + fsNorth) / 2
	return []float64{math.Min(fsLat, fs0), math.Min(fsLon, fs0)}, true
}

func sample(
	in *grid.Interpolator, t *Transect, p *plan,
	conv geo.Convention, have geo.Extent, r int,
) (Transect, error) {
	out := *t
	out.Samples = make([]Sample, len(p.dists))
	for i := range p.dists {
		lon, lat := p.lons[i], p.lats[i]
		if !in.Contains(lon, lat) {
			need, err := geo.Bounds(p.lons, p.lats, r)
			if err != nil {
				return Transect{}, err
			}
			return Transect{}, &OutOfBoundsError{Need: need, Have: have}
		}
		out.Samples[i] = Sample{
			Lon:      geo.Canonicalize(lon, conv),
			Lat:      lat,
			Distance: p.dists[i],
			Depth:    in.Eval(lon, lat),
		}
	}
	return out, nil
}

// filtered convolves z with m and returns an interpolator over the result.
// Rasters which wrap around the globe are padded periodically in longitude.
func filtered(
	xAxis, yAxis []float64, z *mat64.Dense, m *mask.Mask, gres0 float64, r int,
) (*grid.Interpolator, error) {
	rows, cols := len(yAxis), len(xAxis)
	bx := interpolate.Extension
	if floats.Round(float64(cols)*gres0, r) >= 360 {
		bx = interpolate.Periodic
	}
	vals := interpolate.Convolve2D(
		denseData(z), rows, cols, m.Raw(), m.Rows, m.Cols,
		bx, interpolate.Extension,
	)
	return grid.NewInterpolator(
		xAxis, yAxis, mat64.NewDense(rows, cols, vals), r,
	)
}

func denseData(m *mat64.Dense) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}
