// internal/council/events.go
package council

// EventType identifies one step of a streaming council run.
type EventType string

// Progress event types, in the order a successful run emits them. On the
// total-Stage1-failure short-circuit the stage2/stage3 events are skipped and
// EventComplete still fires last.
const (
	EventStage1Start    EventType = "stage1_start"
	EventStage1Complete EventType = "stage1_complete"
	EventStage2Start    EventType = "stage2_start"
	EventStage2Complete EventType = "stage2_complete"
	EventStage3Start    EventType = "stage3_start"
	EventStage3Complete EventType = "stage3_complete"
	EventComplete       EventType = "complete"
)

// Event is one progress notification from a streaming run. Data is nil for
// *_start events; *_complete events carry that stage's results, and the final
// EventComplete carries the whole RunResult.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// EmitFunc receives progress events in order. Emission happens on the
// orchestrator's goroutine, so a slow consumer delays the run.
type EmitFunc func(Event)
