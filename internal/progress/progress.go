// Package progress implements the five-step pipeline progress aggregator:
// each step contributes a fixed 1024-unit slice of the overall 0..5*1024
// range, so the GUI shell can render a single bar across heterogeneous
// stages.
package progress

import "fmt"

// Step is one of the five ordered pipeline stages that report progress.
type Step int

const (
	DownloadRecommendedMods Step = iota
	DownloadJRE
	DownloadClientJar
	DownloadLibraries
	DownloadAssets

	stepCount = 5
	unitsPerStep = 1024
)

func (s Step) String() string {
	switch s {
	case DownloadRecommendedMods:
		return "DownloadRecommendedMods"
	case DownloadJRE:
		return "DownloadJRE"
	case DownloadClientJar:
		return "DownloadClientJar"
	case DownloadLibraries:
		return "DownloadLibraries"
	case DownloadAssets:
		return "DownloadAssets"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// EventKind discriminates the progress event tagged variant.
type EventKind int

const (
	EventSetMax EventKind = iota
	EventSetProgress
	EventSetLabel
)

// Event is one progress notification sent to the GUI shell.
type Event struct {
	Kind  EventKind
	Value int
	Label string
}

// Sink receives progress events. The command surface's adapter implements
// this to forward events over its own channel/wire format.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Aggregator drives a Sink through the five-step pipeline, scaling each
// step's local progress into the global 0..5*1024 range.
type Aggregator struct {
	sink Sink
}

// New wraps a Sink.
func New(sink Sink) *Aggregator { return &Aggregator{sink: sink} }

// SetMax emits the global maximum (5*1024 units).
func (a *Aggregator) SetMax() {
	a.sink.Emit(Event{Kind: EventSetMax, Value: stepCount * unitsPerStep})
}

// SetToMax emits the global maximum as the current progress, signaling
// completion.
func (a *Aggregator) SetToMax() {
	a.sink.Emit(Event{Kind: EventSetProgress, Value: stepCount * unitsPerStep})
}

// SetLabel emits a label event; the aggregator itself writes no log line
// for it.
func (a *Aggregator) SetLabel(text string) {
	a.sink.Emit(Event{Kind: EventSetLabel, Label: text})
}

// SetForStep scales (progress, max) within step into the global range and
// emits SetProgress. Per §4.9: step_index*1024 + progress*1024/max.
func (a *Aggregator) SetForStep(step Step, progress, max int) {
	scaled := int(step) * unitsPerStep
	if max > 0 {
		scaled += progress * unitsPerStep / max
	}
	a.sink.Emit(Event{Kind: EventSetProgress, Value: scaled})
}
