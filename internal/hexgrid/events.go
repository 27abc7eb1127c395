package hexgrid

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

// Level is the severity of an Event.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// EventKind identifies what happened.
type EventKind string

const (
	EventBoundariesDetected      EventKind = "boundaries_detected"
	EventBoundaryNotFound        EventKind = "boundary_not_found"
	EventSpacingEstimated        EventKind = "spacing_estimated"
	EventSideLengthAggregated    EventKind = "side_length_aggregated"
	EventWeakSignalFallback      EventKind = "weak_signal_fallback"
	EventOversizedGridCorrection EventKind = "oversized_grid_correction"
	EventGridCalculated          EventKind = "grid_calculated"
	EventOverrideApplied         EventKind = "override_applied"
	EventCellsEnumerated         EventKind = "cells_enumerated"
	EventDegenerateCellWindow    EventKind = "degenerate_cell_window"
	EventTileExtracted           EventKind = "tile_extracted"
	EventDebugImageFailed        EventKind = "debug_image_failed"
)

// Event is a structured record of a pipeline decision.
type Event struct {
	Kind    EventKind
	Level   Level
	Message string
	Fields  map[string]interface{}
}

// String renders the event as "message key=value ..." with keys sorted.
func (e Event) String() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(e.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

// EventSink receives events from pipeline components.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit calls f(e).
func (f EventSinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard EventSink = EventSinkFunc(func(Event) {})

// orDiscard keeps nil sinks from leaking into components.
func orDiscard(s EventSink) EventSink {
	if s == nil {
		return Discard
	}
	return s
}

// LogSink writes events at or above MinLevel to a standard logger.
type LogSink struct {
	Logger   *log.Logger
	MinLevel Level
}

// Emit logs e when it passes the level filter.
func (s LogSink) Emit(e Event) {
	if e.Level < s.MinLevel {
		return
	}
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[%s] %s: %s", e.Level, e.Kind, e.String())
}

// Recorder keeps every event it receives. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of the given kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Has reports whether at least one event of kind was recorded.
func (r *Recorder) Has(kind EventKind) bool {
	return r.Count(kind) > 0
}
