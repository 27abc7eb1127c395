package hexgrid

import "fmt"

// StageObserver is called after each inference stage with that stage's
// output. It is the hook for debug visualisation; implementations must not
// modify what they are given.
type StageObserver interface {
	ObserveBoundaries(mask *EdgeMask, profiles Profiles, b Boundaries)
	ObserveGrid(mask *EdgeMask, p GridParams)
	ObserveCells(mask *EdgeMask, p GridParams, cells []HexCell)
}

// NopObserver ignores every stage.
type NopObserver struct{}

func (NopObserver) ObserveBoundaries(*EdgeMask, Profiles, Boundaries) {}
func (NopObserver) ObserveGrid(*EdgeMask, GridParams)                 {}
func (NopObserver) ObserveCells(*EdgeMask, GridParams, []HexCell)     {}

// Analysis is the result of running every inference stage on one mask.
type Analysis struct {
	Profiles   Profiles   `json:"-"`
	Boundaries Boundaries `json:"boundaries"`
	Params     GridParams `json:"params"`
}

// Analyzer chains boundary projection, spacing estimation and grid
// calculation.
type Analyzer struct {
	events     EventSink
	observer   StageObserver
	strategies []SpacingStrategy
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEvents sets the sink every stage reports to.
func WithEvents(s EventSink) Option {
	return func(a *Analyzer) { a.events = orDiscard(s) }
}

// WithObserver installs a StageObserver.
func WithObserver(o StageObserver) Option {
	return func(a *Analyzer) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithStrategies replaces the default spacing strategy chain.
func WithStrategies(s ...SpacingStrategy) Option {
	return func(a *Analyzer) { a.strategies = s }
}

// NewAnalyzer returns an Analyzer with the given options applied.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{events: Discard, observer: NopObserver{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DetectBoundaries projects the mask and measures the pattern spacing on
// each side.
func (a *Analyzer) DetectBoundaries(mask *EdgeMask) (Profiles, Boundaries, error) {
	profiles, box, err := ProjectBoundaries(mask)
	if err != nil {
		a.events.Emit(Event{
			Kind:    EventBoundaryNotFound,
			Level:   LevelError,
			Message: "no map boundary in edge mask",
			Fields: map[string]interface{}{
				"width":  mask.Width(),
				"height": mask.Height(),
			},
		})
		return Profiles{}, Boundaries{}, err
	}

	spacings := NewSpacingEstimator(a.events, a.strategies...).EstimateAll(profiles)
	b := NewBoundaries(box, spacings)

	a.events.Emit(Event{
		Kind:    EventSideLengthAggregated,
		Level:   LevelDebug,
		Message: "hex side length aggregated",
		Fields: map[string]interface{}{
			"hex_side_length": b.HexSideLength,
			"fallback":        !anyValid(spacings),
		},
	})
	a.events.Emit(Event{
		Kind:    EventBoundariesDetected,
		Level:   LevelInfo,
		Message: "map boundaries detected",
		Fields: map[string]interface{}{
			"box":             fmt.Sprintf("(%d,%d)-(%d,%d)", b.Left, b.Top, b.Right, b.Bottom),
			"size":            fmt.Sprintf("%dx%d", b.Width, b.Height),
			"hex_side_length": b.HexSideLength,
		},
	})

	a.observer.ObserveBoundaries(mask, profiles, b)
	return profiles, b, nil
}

// Analyze runs every inference stage on mask.
func (a *Analyzer) Analyze(mask *EdgeMask, expectedTiles int) (Analysis, error) {
	profiles, b, err := a.DetectBoundaries(mask)
	if err != nil {
		return Analysis{}, err
	}

	p, err := NewCalculator(a.events).Calculate(b, expectedTiles)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to calculate grid: %w", err)
	}
	a.observer.ObserveGrid(mask, p)

	return Analysis{Profiles: profiles, Boundaries: b, Params: p}, nil
}

// Cells enumerates p over the mask's extent and reports the result to the
// observer.
func (a *Analyzer) Cells(mask *EdgeMask, p GridParams, mode OffsetMode) []HexCell {
	cells := CellEnumerator{Events: a.events}.Enumerate(p, mask.Width(), mask.Height(), mode)
	a.observer.ObserveCells(mask, p, cells)
	return cells
}

func anyValid(spacings map[Direction]int) bool {
	for _, s := range spacings {
		if s > SpacingValidityThreshold {
			return true
		}
	}
	return false
}
