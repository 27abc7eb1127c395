package hexgrid

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// triangleWave returns a profile whose maxima sit every period samples,
// starting at index 0.
func triangleWave(n, period int) []float64 {
	p := make([]float64, n)
	half := period / 2
	for i := range p {
		d := i%period - half
		if d < 0 {
			d = -d
		}
		p[i] = float64(d)
	}
	return p
}

// spikes returns a zero profile with value 1 at each given index.
func spikes(n int, at ...int) []float64 {
	p := make([]float64, n)
	for _, i := range at {
		p[i] = 1
	}
	return p
}

type refusingStrategy struct{ calls *int }

func (refusingStrategy) Name() string { return "refuse" }

func (s refusingStrategy) Estimate([]float64) (int, bool) {
	*s.calls++
	return 0, false
}

func TestPeakSpacing_TriangleWave(t *testing.T) {
	tests := []struct {
		name   string
		period int
	}{
		{"period 30", 30},
		{"period 40", 40},
		{"period 64", 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultPeakSpacing().Estimate(triangleWave(300, tt.period))
			if !ok {
				t.Fatal("expected an estimate")
			}
			if got != tt.period {
				t.Errorf("spacing: got %d, want %d", got, tt.period)
			}
		})
	}
}

func TestPeakSpacing_SinglePeak(t *testing.T) {
	// A single bump has no pitch.
	_, ok := DefaultPeakSpacing().Estimate(spikes(50, 25))
	if ok {
		t.Error("expected no estimate from a single peak")
	}
}

func TestGapSpacing(t *testing.T) {
	tests := []struct {
		name    string
		profile []float64
		want    int
		ok      bool
	}{
		{"regular", spikes(100, 0, 25, 50, 75), 25, true},
		{"small gaps ignored", spikes(100, 0, 2, 25, 27, 50), 23, true},
		{"even count averages middle", spikes(150, 0, 20, 50, 90, 140), 35, true},
		{"only small gaps", spikes(100, 10, 12, 14, 16), 0, false},
		{"single sample", spikes(100, 10), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultGapSpacing().Estimate(tt.profile)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("spacing: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpacingEstimator_Abstains(t *testing.T) {
	e := NewSpacingEstimator(nil)

	tests := []struct {
		name    string
		profile []float64
	}{
		{"nil", nil},
		{"shorter than minimum", triangleWave(MinProfileLength-1, 4)},
		{"all zero", make([]float64, 100)},
		{"flat", spikes(100, 40, 41, 42, 43, 44, 45)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Estimate(tt.profile); got != 0 {
				t.Errorf("spacing: got %d, want 0", got)
			}
		})
	}
}

func TestSpacingEstimator_FallsThroughChain(t *testing.T) {
	calls := 0
	e := NewSpacingEstimator(nil, refusingStrategy{&calls}, DefaultGapSpacing())

	got, strategy := e.estimate(spikes(100, 0, 25, 50, 75))
	if got != 25 {
		t.Errorf("spacing: got %d, want 25", got)
	}
	if strategy != "gaps" {
		t.Errorf("strategy: got %q, want %q", strategy, "gaps")
	}
	if calls != 1 {
		t.Errorf("first strategy calls: got %d, want 1", calls)
	}
}

func TestSpacingEstimator_ShortProfileSkipsStrategies(t *testing.T) {
	calls := 0
	e := NewSpacingEstimator(nil, refusingStrategy{&calls})

	e.Estimate(make([]float64, 5))
	if calls != 0 {
		t.Errorf("strategy calls: got %d, want 0", calls)
	}
}

func TestSpacingEstimator_EstimateAll(t *testing.T) {
	rec := &Recorder{}
	e := NewSpacingEstimator(rec)

	got := e.EstimateAll(Profiles{
		FromTop:    triangleWave(200, 40),
		FromBottom: triangleWave(200, 40),
		FromLeft:   make([]float64, 100),
		FromRight:  triangleWave(5, 2),
	})

	want := map[Direction]int{FromTop: 40, FromBottom: 40, FromLeft: 0, FromRight: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spacings mismatch (-want +got):\n%s", diff)
	}
	if n := rec.Count(EventSpacingEstimated); n != 4 {
		t.Errorf("spacing events: got %d, want 4", n)
	}
}

func TestFindPeaks(t *testing.T) {
	x := []float64{0, 1, 0, 2, 2, 0, 3, 0}

	tests := []struct {
		name        string
		minHeight   float64
		minDistance int
		want        []int
	}{
		{"all peaks, plateau midpoint", 0, 1, []int{1, 3, 6}},
		{"height filter", 1.5, 1, []int{3, 6}},
		{"distance keeps the higher", 0, 3, []int{3, 6}},
		{"wide distance keeps the highest", 0, 10, []int{6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findPeaks(x, tt.minHeight, tt.minDistance)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("peaks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindPeaks_EndpointsExcluded(t *testing.T) {
	got := findPeaks([]float64{5, 1, 0, 1, 5}, 0, 1)
	if len(got) != 0 {
		t.Errorf("peaks: got %v, want none", got)
	}
}

func TestGaussianSmooth(t *testing.T) {
	x := spikes(21, 10)

	out := gaussianSmooth(x, 1)

	var sum float64
	for _, v := range out {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("sum: got %v, want 1", sum)
	}
	if math.Abs(out[9]-out[11]) > 1e-12 {
		t.Errorf("symmetry: out[9]=%v out[11]=%v", out[9], out[11])
	}
	if out[10] <= out[9] {
		t.Errorf("center should be the maximum: out[10]=%v out[9]=%v", out[10], out[9])
	}
	if out[0] != 0 {
		t.Errorf("beyond 4 sigma: got %v, want 0", out[0])
	}
}

func TestGaussianSmooth_ZeroSigmaCopies(t *testing.T) {
	x := []float64{1, 2, 3}
	out := gaussianSmooth(x, 0)
	if diff := cmp.Diff(x, out); diff != "" {
		t.Errorf("copy mismatch (-want +got):\n%s", diff)
	}
	out[0] = 9
	if x[0] != 1 {
		t.Error("smoothing must not alias its input")
	}
}

func TestReflectIndex(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{-1, 5, 0},
		{-2, 5, 1},
		{5, 5, 4},
		{6, 5, 3},
		{2, 5, 2},
	}
	for _, tt := range tests {
		if got := reflectIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("reflectIndex(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestMedian(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("odd: got %v, want 2", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("even: got %v, want 2.5", got)
	}
}
