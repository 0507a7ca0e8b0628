// internal/council/engine_test.go
package council

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

// stagedQuerier scripts per-model replies, distinguishing the ranking and
// synthesis calls by the prompt content the engine builds.
type stagedQuerier struct {
	answers   map[string]string // stage1 reply per model; missing = failure
	rankings  map[string]string // stage2 reply per judge; missing = failure
	synthesis string            // stage3 reply; empty = chairman failure
	delays    map[string]time.Duration
}

func (s *stagedQuerier) QuerySingle(ctx context.Context, model string, messages []Message) *ModelResponse {
	if d := s.delays[model]; d > 0 {
		time.Sleep(d)
	}
	prompt := messages[len(messages)-1].Content
	switch {
	case strings.Contains(prompt, "chairman of a council"):
		if s.synthesis == "" {
			return nil
		}
		return &ModelResponse{Model: model, Content: s.synthesis}
	case strings.Contains(prompt, "FINAL RANKING:"):
		content, ok := s.rankings[model]
		if !ok {
			return nil
		}
		return &ModelResponse{Model: model, Content: content}
	default:
		content, ok := s.answers[model]
		if !ok {
			return nil
		}
		return &ModelResponse{Model: model, Content: content}
	}
}

func TestStage1KeepsRosterOrderRegardlessOfCompletion(t *testing.T) {
	t.Parallel()

	roster := []string{"openai/gpt-4o", "anthropic/claude-3-opus", "google/gemini-pro"}
	q := &stagedQuerier{
		answers: map[string]string{
			"openai/gpt-4o":           "GPT response",
			"anthropic/claude-3-opus": "Claude response",
			"google/gemini-pro":       "Gemini response",
		},
		// First roster entry finishes last.
		delays: map[string]time.Duration{"openai/gpt-4o": 30 * time.Millisecond},
	}
	engine := NewEngine(q, roster, "chairman")

	got := engine.Stage1(context.Background(), "What is Go?")
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i, model := range roster {
		if got[i].Model != model {
			t.Fatalf("result %d: model %s want %s", i, got[i].Model, model)
		}
	}
}

func TestStage1DropsFailedModels(t *testing.T) {
	t.Parallel()

	roster := []string{"model-a", "model-b", "model-c"}
	q := &stagedQuerier{answers: map[string]string{
		"model-a": "A answer",
		"model-c": "C answer",
	}}
	engine := NewEngine(q, roster, "chairman")

	got := engine.Stage1(context.Background(), "question")
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d: %v", len(got), got)
	}
	for _, result := range got {
		if result.Model == "model-b" {
			t.Fatalf("failed model present in results: %v", got)
		}
	}
}

func TestStage1AllFailuresYieldEmptySlice(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&stagedQuerier{}, []string{"model-a", "model-b"}, "chairman")
	got := engine.Stage1(context.Background(), "question")
	if len(got) != 0 {
		t.Fatalf("expected empty results, got %v", got)
	}
}

func TestStage2AssignsLabelsInStage1Order(t *testing.T) {
	t.Parallel()

	stage1 := []Stage1Result{
		{Model: "openai/gpt-4o", Response: "GPT answer"},
		{Model: "anthropic/claude-3-opus", Response: "Claude answer"},
		{Model: "google/gemini-pro", Response: "Gemini answer"},
	}
	q := &stagedQuerier{rankings: map[string]string{
		"openai/gpt-4o":           "FINAL RANKING:\n1. Response A",
		"anthropic/claude-3-opus": "FINAL RANKING:\n1. Response B",
		"google/gemini-pro":       "FINAL RANKING:\n1. Response C",
	}}
	engine := NewEngine(q, []string{"openai/gpt-4o", "anthropic/claude-3-opus", "google/gemini-pro"}, "chairman")

	_, labels := engine.Stage2(context.Background(), "test query", stage1)

	wantLabels := []string{"Response A", "Response B", "Response C"}
	if !reflect.DeepEqual(labels.Labels(), wantLabels) {
		t.Fatalf("labels %v want %v", labels.Labels(), wantLabels)
	}
	wantModels := map[string]string{
		"Response A": "openai/gpt-4o",
		"Response B": "anthropic/claude-3-opus",
		"Response C": "google/gemini-pro",
	}
	for label, wantModel := range wantModels {
		model, ok := labels.Model(label)
		if !ok || model != wantModel {
			t.Fatalf("label %s resolves to %q want %q", label, model, wantModel)
		}
	}
}

func TestStage2ParsesEachJudge(t *testing.T) {
	t.Parallel()

	stage1 := []Stage1Result{
		{Model: "openai/gpt-4o", Response: "GPT answer"},
		{Model: "anthropic/claude-3-opus", Response: "Claude answer"},
		{Model: "google/gemini-pro", Response: "Gemini answer"},
	}
	q := &stagedQuerier{rankings: map[string]string{
		"openai/gpt-4o": "FINAL RANKING:\n1. Response B\n2. Response A\n3. Response C",
	}}
	engine := NewEngine(q, []string{"openai/gpt-4o", "anthropic/claude-3-opus", "google/gemini-pro"}, "chairman")

	results, _ := engine.Stage2(context.Background(), "test query", stage1)
	if len(results) != 1 {
		t.Fatalf("expected 1 judge result, got %d", len(results))
	}
	want := []string{"Response B", "Response A", "Response C"}
	if !reflect.DeepEqual(results[0].ParsedRanking, want) {
		t.Fatalf("parsed ranking %v want %v", results[0].ParsedRanking, want)
	}
}

func TestStage2PromptHidesModelIdentities(t *testing.T) {
	t.Parallel()

	stage1 := []Stage1Result{
		{Model: "openai/gpt-4o", Response: "GPT answer"},
		{Model: "anthropic/claude-3-opus", Response: "Claude answer"},
	}

	var captured string
	q := QuerierFunc(func(ctx context.Context, model string, messages []Message) *ModelResponse {
		captured = messages[len(messages)-1].Content
		return nil
	})
	engine := NewEngine(q, []string{"openai/gpt-4o"}, "chairman")
	engine.Stage2(context.Background(), "test query", stage1)

	for _, result := range stage1 {
		if strings.Contains(captured, result.Model) {
			t.Fatalf("ranking prompt leaks model id %s:\n%s", result.Model, captured)
		}
	}
	if !strings.Contains(captured, "Response A") || !strings.Contains(captured, "Response B") {
		t.Fatalf("ranking prompt missing labels:\n%s", captured)
	}
}

func TestStage3Success(t *testing.T) {
	t.Parallel()

	q := &stagedQuerier{synthesis: "Final synthesized answer"}
	engine := NewEngine(q, []string{"model-a"}, "google/gemini-pro")

	stage1 := []Stage1Result{{Model: "model-a", Response: "answer"}}
	stage2 := []Stage2Result{{Model: "model-a", Ranking: "FINAL RANKING:\n1. Response A", ParsedRanking: []string{"Response A"}}}

	got := engine.Stage3(context.Background(), "test query", stage1, stage2)
	if got.Model != "google/gemini-pro" {
		t.Fatalf("stage3 model %q want chairman", got.Model)
	}
	if got.Response != "Final synthesized answer" {
		t.Fatalf("stage3 response %q", got.Response)
	}
}

func TestStage3ChairmanFailureDegrades(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&stagedQuerier{}, []string{"model-a"}, "chairman")
	got := engine.Stage3(context.Background(), "q", nil, nil)
	if !strings.HasPrefix(got.Response, "Error:") {
		t.Fatalf("expected Error:-prefixed response, got %q", got.Response)
	}
}

func TestRunTotalFailureShortCircuits(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&stagedQuerier{}, []string{"model1", "model2"}, "chairman")
	got := engine.Run(context.Background(), "test query")

	if len(got.Stage1) != 0 || len(got.Stage2) != 0 {
		t.Fatalf("expected empty stage1/stage2, got %+v", got)
	}
	if !strings.Contains(strings.ToLower(got.Stage3.Model), "error") &&
		!strings.Contains(got.Stage3.Response, "Error") {
		t.Fatalf("stage3 not error-flavored: %+v", got.Stage3)
	}
	if got.Metadata.LabelToModel != nil || got.Metadata.AggregateRankings != nil {
		t.Fatalf("expected empty metadata, got %+v", got.Metadata)
	}
}

func TestRunSuccessfulCouncil(t *testing.T) {
	t.Parallel()

	q := &stagedQuerier{
		answers: map[string]string{
			"openai/gpt-4o":           "GPT response",
			"anthropic/claude-3-opus": "Claude response",
		},
		rankings: map[string]string{
			"openai/gpt-4o":           "FINAL RANKING:\n1. Response A\n2. Response B",
			"anthropic/claude-3-opus": "FINAL RANKING:\n1. Response B\n2. Response A",
		},
		synthesis: "Final synthesis",
	}
	engine := NewEngine(q, []string{"openai/gpt-4o", "anthropic/claude-3-opus"}, "chairman")

	got := engine.Run(context.Background(), "test query")

	if len(got.Stage1) != 2 || len(got.Stage2) != 2 {
		t.Fatalf("stage sizes: stage1=%d stage2=%d", len(got.Stage1), len(got.Stage2))
	}
	if got.Stage3.Response != "Final synthesis" {
		t.Fatalf("stage3 response %q", got.Stage3.Response)
	}
	if got.Metadata.LabelToModel.Len() != 2 {
		t.Fatalf("label map size %d want 2", got.Metadata.LabelToModel.Len())
	}
	// Inverse rankings: both models tie at 1.5.
	if len(got.Metadata.AggregateRankings) != 2 {
		t.Fatalf("aggregate entries %v", got.Metadata.AggregateRankings)
	}
	for _, entry := range got.Metadata.AggregateRankings {
		if entry.AverageRank != 1.5 || entry.RankingsCount != 2 {
			t.Fatalf("unexpected aggregate entry %+v", entry)
		}
	}
}

func TestRunChairmanFailureStillCompletes(t *testing.T) {
	t.Parallel()

	q := &stagedQuerier{
		answers:  map[string]string{"model-a": "answer"},
		rankings: map[string]string{"model-a": "FINAL RANKING:\n1. Response A"},
		// synthesis empty: the chairman fails.
	}
	engine := NewEngine(q, []string{"model-a"}, "chairman")

	got := engine.Run(context.Background(), "test query")
	if len(got.Stage1) != 1 || len(got.Stage2) != 1 {
		t.Fatalf("run did not complete: %+v", got)
	}
	if !strings.HasPrefix(got.Stage3.Response, "Error:") {
		t.Fatalf("expected degraded stage3, got %q", got.Stage3.Response)
	}
	if got.Metadata.LabelToModel.Len() != 1 {
		t.Fatalf("metadata missing after chairman failure: %+v", got.Metadata)
	}
}

func TestRunStreamEventSequence(t *testing.T) {
	t.Parallel()

	q := &stagedQuerier{
		answers:   map[string]string{"model-a": "answer"},
		rankings:  map[string]string{"model-a": "FINAL RANKING:\n1. Response A"},
		synthesis: "Final",
	}
	engine := NewEngine(q, []string{"model-a"}, "chairman")

	var events []EventType
	result := engine.RunStream(context.Background(), "q", func(ev Event) {
		events = append(events, ev.Type)
		if ev.Type == EventComplete {
			if _, ok := ev.Data.(RunResult); !ok {
				t.Errorf("complete event payload is %T, want RunResult", ev.Data)
			}
		}
	})

	want := []EventType{
		EventStage1Start, EventStage1Complete,
		EventStage2Start, EventStage2Complete,
		EventStage3Start, EventStage3Complete,
		EventComplete,
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("event sequence %v want %v", events, want)
	}
	if result.Stage3.Response != "Final" {
		t.Fatalf("stream result stage3 %q", result.Stage3.Response)
	}
}

func TestRunStreamShortCircuitStillEmitsComplete(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&stagedQuerier{}, []string{"model-a"}, "chairman")

	var events []EventType
	engine.RunStream(context.Background(), "q", func(ev Event) {
		events = append(events, ev.Type)
	})

	want := []EventType{EventStage1Start, EventStage1Complete, EventComplete}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("event sequence %v want %v", events, want)
	}
}

func TestGenerateTitle(t *testing.T) {
	t.Parallel()

	t.Run("uses chairman response", func(t *testing.T) {
		t.Parallel()
		q := QuerierFunc(func(ctx context.Context, model string, messages []Message) *ModelResponse {
			return &ModelResponse{Model: model, Content: `"Learning Go Basics"` + "\n"}
		})
		engine := NewEngine(q, nil, "chairman")
		if got := engine.GenerateTitle(context.Background(), "How do I learn Go?"); got != "Learning Go Basics" {
			t.Fatalf("title %q", got)
		}
	})

	t.Run("falls back to truncated query", func(t *testing.T) {
		t.Parallel()
		q := QuerierFunc(func(ctx context.Context, model string, messages []Message) *ModelResponse {
			return nil
		})
		engine := NewEngine(q, nil, "chairman")
		query := strings.Repeat("long question ", 10)
		got := engine.GenerateTitle(context.Background(), query)
		if got == "" || len([]rune(got)) > 49 {
			t.Fatalf("fallback title %q", got)
		}
	})

	t.Run("empty query gets default", func(t *testing.T) {
		t.Parallel()
		q := QuerierFunc(func(ctx context.Context, model string, messages []Message) *ModelResponse {
			return nil
		})
		engine := NewEngine(q, nil, "chairman")
		if got := engine.GenerateTitle(context.Background(), "   "); got != "New Conversation" {
			t.Fatalf("default title %q", got)
		}
	})
}
