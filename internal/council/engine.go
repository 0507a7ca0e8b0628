// internal/council/engine.go
package council

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwiater/synod/internal/logging"
	"github.com/mwiater/synod/internal/util"
)

const (
	// errorModel marks the synthetic Stage 3 placeholder produced when the
	// whole council failed and there was nothing to synthesize.
	errorModel = "error"

	// maxFallbackTitleRunes caps the title derived from the raw query when
	// title generation fails.
	maxFallbackTitleRunes = 48
)

// Engine runs the council pipeline against a fixed roster. The roster and
// chairman are supplied by the caller; the engine does not decide which
// models to consult.
type Engine struct {
	querier  Querier
	roster   []string
	chairman string
}

// NewEngine builds an engine. The roster is used both for Stage 1 answers and
// as the Stage 2 judge panel; chairman is the single Stage 3 synthesizer.
func NewEngine(q Querier, roster []string, chairman string) *Engine {
	return &Engine{querier: q, roster: roster, chairman: chairman}
}

// Roster returns the council model identifiers in their configured order.
func (e *Engine) Roster() []string { return e.roster }

// Chairman returns the chairman model identifier.
func (e *Engine) Chairman() string { return e.chairman }

// Stage1 fans the user query out to every council model and keeps the
// successful answers in roster order. Failed models are dropped; if every
// model fails the result is empty, which is not an error here.
func (e *Engine) Stage1(ctx context.Context, query string) []Stage1Result {
	messages := []Message{{Role: "user", Content: query}}
	responses := Fanout(ctx, e.querier, e.roster, messages)

	results := make([]Stage1Result, 0, len(e.roster))
	for _, model := range e.roster {
		resp := responses[model]
		if resp == nil {
			continue
		}
		results = append(results, Stage1Result{Model: model, Response: resp.Content})
	}
	logging.LogEvent("[COUNCIL] stage1: %d/%d models answered", len(results), len(e.roster))
	return results
}

// Stage2 labels the Stage 1 answers, fans a single ranking prompt out to the
// judge panel, and parses each judge's verdict. Judges that fail to respond
// are omitted, mirroring Stage 1's drop-on-failure policy. The returned
// LabelMap fixes the label-to-model bijection for the rest of the run.
func (e *Engine) Stage2(ctx context.Context, query string, stage1 []Stage1Result) ([]Stage2Result, *LabelMap) {
	labels := NewLabelMap()
	labeled := make([]labeledResponse, 0, len(stage1))
	for i, result := range stage1 {
		label := fmt.Sprintf("Response %c", 'A'+i)
		labels.Add(label, result.Model)
		labeled = append(labeled, labeledResponse{Label: label, Response: result.Response})
	}

	prompt, err := buildRankingPrompt(query, labeled)
	if err != nil {
		logging.LogEvent("[COUNCIL] stage2: ranking prompt failed: %v", err)
		return []Stage2Result{}, labels
	}

	messages := []Message{{Role: "user", Content: prompt}}
	responses := Fanout(ctx, e.querier, e.roster, messages)

	results := make([]Stage2Result, 0, len(e.roster))
	for _, model := range e.roster {
		resp := responses[model]
		if resp == nil {
			continue
		}
		results = append(results, Stage2Result{
			Model:         model,
			Ranking:       resp.Content,
			ParsedRanking: ParseRanking(resp.Content),
		})
	}
	logging.LogEvent("[COUNCIL] stage2: %d/%d judges answered", len(results), len(e.roster))
	return results, labels
}

// Stage3 asks the chairman for one synthesized answer built from the Stage 1
// answers and Stage 2 critiques. A chairman failure degrades to an
// "Error:"-prefixed response rather than failing the run.
func (e *Engine) Stage3(ctx context.Context, query string, stage1 []Stage1Result, stage2 []Stage2Result) Stage3Result {
	prompt, err := buildSynthesisPrompt(query, stage1, stage2)
	if err != nil {
		logging.LogEvent("[COUNCIL] stage3: synthesis prompt failed: %v", err)
		return Stage3Result{Model: e.chairman, Response: "Error: could not build the synthesis prompt."}
	}

	resp := e.querier.QuerySingle(ctx, e.chairman, []Message{{Role: "user", Content: prompt}})
	if resp == nil {
		logging.LogEvent("[COUNCIL] stage3: chairman %s failed", e.chairman)
		return Stage3Result{Model: e.chairman, Response: "Error: the chairman model failed to produce a response."}
	}
	return Stage3Result{Model: e.chairman, Response: resp.Content}
}

// Run executes the full pipeline: Stage 1, Stage 2, Stage 3, then the
// aggregate calculation. Individual model failures are absorbed along the
// way; the one short-circuit is a total Stage 1 failure, which skips the
// remaining stages and returns an error-flavored Stage 3 placeholder with
// empty metadata. Run never fails outright.
func (e *Engine) Run(ctx context.Context, query string) RunResult {
	return e.RunStream(ctx, query, nil)
}

// RunStream is Run with ordered progress events delivered to emit (may be
// nil). A *_complete event is emitted only after that stage's fan-out has
// fully settled, and the next stage's *_start only after the previous
// *_complete; EventComplete is always last, including on the short-circuit
// path.
func (e *Engine) RunStream(ctx context.Context, query string, emit EmitFunc) RunResult {
	send := func(ev Event) {
		if emit != nil {
			emit(ev)
		}
	}

	send(Event{Type: EventStage1Start})
	stage1 := e.Stage1(ctx, query)
	send(Event{Type: EventStage1Complete, Data: stage1})

	if len(stage1) == 0 {
		result := RunResult{
			Stage1: []Stage1Result{},
			Stage2: []Stage2Result{},
			Stage3: Stage3Result{
				Model:    errorModel,
				Response: "Error: no council models responded; unable to answer.",
			},
		}
		send(Event{Type: EventComplete, Data: result})
		return result
	}

	send(Event{Type: EventStage2Start})
	stage2, labels := e.Stage2(ctx, query, stage1)
	send(Event{Type: EventStage2Complete, Data: stage2})

	send(Event{Type: EventStage3Start})
	stage3 := e.Stage3(ctx, query, stage1, stage2)
	send(Event{Type: EventStage3Complete, Data: stage3})

	result := RunResult{
		Stage1: stage1,
		Stage2: stage2,
		Stage3: stage3,
		Metadata: Metadata{
			LabelToModel:      labels,
			AggregateRankings: AggregateRankings(stage2, labels),
		},
	}
	send(Event{Type: EventComplete, Data: result})
	return result
}

// GenerateTitle asks the chairman for a short conversation title. When the
// chairman fails or returns nothing usable, the query itself is truncated
// into a title so the caller always gets something displayable.
func (e *Engine) GenerateTitle(ctx context.Context, query string) string {
	prompt, err := buildTitlePrompt(query)
	if err == nil {
		if resp := e.querier.QuerySingle(ctx, e.chairman, []Message{{Role: "user", Content: prompt}}); resp != nil {
			if title := strings.TrimSpace(resp.Content); title != "" {
				return strings.Trim(title, `"`)
			}
		}
	}
	fallback := strings.TrimSpace(query)
	if fallback == "" {
		return "New Conversation"
	}
	return util.TruncateRunes(fallback, maxFallbackTitleRunes)
}
