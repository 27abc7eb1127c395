package hexgrid

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinProfileLength is the shortest profile a spacing can be estimated from.
const MinProfileLength = 10

// SpacingStrategy estimates the pitch of a periodic 1-D profile.
// Estimate returns false when the strategy cannot answer.
type SpacingStrategy interface {
	Name() string
	Estimate(profile []float64) (int, bool)
}

// PeakSpacing smooths the profile with a Gaussian kernel, finds its peaks and
// returns the median distance between consecutive peaks.
type PeakSpacing struct {
	// Sigma of the smoothing kernel in samples. Zero disables smoothing.
	Sigma float64
	// RelativeHeight is the fraction of the smoothed maximum a peak must reach.
	RelativeHeight float64
	// MinDistance is the minimum number of samples between kept peaks.
	MinDistance int
}

// DefaultPeakSpacing is tuned for sparse edge profiles: light smoothing that
// keeps peak positions, a low height gate, and a distance that merges
// neighbouring edge pixels into one peak.
func DefaultPeakSpacing() PeakSpacing {
	return PeakSpacing{Sigma: 1, RelativeHeight: 0.1, MinDistance: 10}
}

// Name implements SpacingStrategy.
func (PeakSpacing) Name() string { return "peaks" }

// Estimate implements SpacingStrategy. It needs at least two peaks.
func (s PeakSpacing) Estimate(profile []float64) (int, bool) {
	smoothed := gaussianSmooth(profile, s.Sigma)
	if len(smoothed) == 0 {
		return 0, false
	}
	top := floats.Max(smoothed)
	if top <= 0 {
		return 0, false
	}
	peaks := findPeaks(smoothed, top*s.RelativeHeight, s.MinDistance)
	if len(peaks) < 2 {
		return 0, false
	}
	gaps := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		gaps[i-1] = float64(peaks[i] - peaks[i-1])
	}
	return int(median(gaps)), true
}

// GapSpacing measures the gaps between non-zero samples of the raw profile
// and returns the median gap wider than MinGap.
type GapSpacing struct {
	MinGap int
}

// DefaultGapSpacing ignores gaps of 5 samples or fewer.
func DefaultGapSpacing() GapSpacing {
	return GapSpacing{MinGap: 5}
}

// Name implements SpacingStrategy.
func (GapSpacing) Name() string { return "gaps" }

// Estimate implements SpacingStrategy.
func (s GapSpacing) Estimate(profile []float64) (int, bool) {
	last := -1
	var gaps []float64
	for i, v := range profile {
		if v <= 0 {
			continue
		}
		if last >= 0 {
			if gap := i - last; gap > s.MinGap {
				gaps = append(gaps, float64(gap))
			}
		}
		last = i
	}
	if len(gaps) == 0 {
		return 0, false
	}
	return int(median(gaps)), true
}

// SpacingEstimator runs its strategies in order and returns the first answer.
type SpacingEstimator struct {
	strategies []SpacingStrategy
	events     EventSink
}

// NewSpacingEstimator builds an estimator. With no strategies it uses
// DefaultPeakSpacing followed by DefaultGapSpacing.
func NewSpacingEstimator(events EventSink, strategies ...SpacingStrategy) *SpacingEstimator {
	if len(strategies) == 0 {
		strategies = []SpacingStrategy{DefaultPeakSpacing(), DefaultGapSpacing()}
	}
	return &SpacingEstimator{strategies: strategies, events: orDiscard(events)}
}

// Estimate returns the pitch of profile, or 0 when no strategy can tell.
func (e *SpacingEstimator) Estimate(profile []float64) int {
	spacing, _ := e.estimate(profile)
	return spacing
}

func (e *SpacingEstimator) estimate(profile []float64) (int, string) {
	if len(profile) < MinProfileLength || floats.Max(profile) <= 0 {
		return 0, ""
	}
	for _, s := range e.strategies {
		if spacing, ok := s.Estimate(profile); ok {
			return spacing, s.Name()
		}
	}
	return 0, ""
}

// EstimateAll estimates every directional profile.
func (e *SpacingEstimator) EstimateAll(p Profiles) map[Direction]int {
	out := make(map[Direction]int, len(Directions))
	for _, d := range Directions {
		spacing, strategy := e.estimate(p.Get(d))
		out[d] = spacing
		e.events.Emit(Event{
			Kind:    EventSpacingEstimated,
			Level:   LevelDebug,
			Message: "pattern spacing estimated",
			Fields: map[string]interface{}{
				"direction": d.String(),
				"spacing":   spacing,
				"strategy":  strategy,
			},
		})
	}
	return out
}

// gaussianSmooth convolves x with a normalised Gaussian truncated at four
// sigma. Borders are mirrored (d c b a | a b c d).
func gaussianSmooth(x []float64, sigma float64) []float64 {
	out := make([]float64, len(x))
	if sigma <= 0 || len(x) == 0 {
		copy(out, x)
		return out
	}

	radius := int(4*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	normal := distuv.Normal{Mu: 0, Sigma: sigma}
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = normal.Prob(float64(k))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	n := len(x)
	for i := range x {
		var sum float64
		for k := -radius; k <= radius; k++ {
			sum += kernel[k+radius] * x[reflectIndex(i+k, n)]
		}
		out[i] = sum
	}
	return out
}

func reflectIndex(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}

// findPeaks returns the indices of local maxima of x that reach minHeight,
// thinned so that no two kept peaks are closer than minDistance. Flat peaks
// report their (lower) midpoint; the first and last samples are never peaks.
// Where two peaks compete the higher one wins.
func findPeaks(x []float64, minHeight float64, minDistance int) []int {
	var peaks []int
	last := len(x) - 1
	for i := 1; i < last; i++ {
		if x[i-1] >= x[i] {
			continue
		}
		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			peaks = append(peaks, (i+ahead-1)/2)
			i = ahead
		}
	}

	kept := peaks[:0]
	for _, p := range peaks {
		if x[p] >= minHeight {
			kept = append(kept, p)
		}
	}
	peaks = kept

	if minDistance <= 1 || len(peaks) < 2 {
		return peaks
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[peaks[order[a]]] < x[peaks[order[b]]]
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for i := len(order) - 1; i >= 0; i-- {
		j := order[i]
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < minDistance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < minDistance; k++ {
			keep[k] = false
		}
	}

	out := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// median of a non-empty slice; even lengths average the middle pair.
func median(values []float64) float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
