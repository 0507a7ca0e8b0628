// internal/council/types.go

// Package council implements the three-stage deliberation pipeline: collect
// responses from every council model, have the models rank each other's
// anonymized answers, and synthesize a final answer through a chairman model.
package council

import (
	"context"
	"encoding/json"
	"sort"
)

// Message is a single chat message sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelResponse is a successful reply from the query provider. A failed query
// is represented by a nil *ModelResponse, never by a partially filled value.
type ModelResponse struct {
	Model     string          `json:"model"`
	Content   string          `json:"content"`
	Reasoning json.RawMessage `json:"reasoning,omitempty"`
}

// Querier issues a single chat request to one model. Implementations must
// normalize every transport-level failure (non-2xx, timeout, connection error,
// malformed payload) to a nil response; the council never inspects transport
// details.
type Querier interface {
	QuerySingle(ctx context.Context, model string, messages []Message) *ModelResponse
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context, model string, messages []Message) *ModelResponse

// QuerySingle calls f.
func (f QuerierFunc) QuerySingle(ctx context.Context, model string, messages []Message) *ModelResponse {
	return f(ctx, model, messages)
}

// Stage1Result is one council model's answer to the user query.
type Stage1Result struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Stage2Result is one judge's critique of the anonymized Stage 1 answers.
// ParsedRanking may be empty (the parser found nothing) or shorter than the
// label set (a partial ranking); both are valid, non-error states.
type Stage2Result struct {
	Model         string   `json:"model"`
	Ranking       string   `json:"ranking"`
	ParsedRanking []string `json:"parsed_ranking"`
}

// Stage3Result is the chairman's synthesized answer, or a degraded
// "Error:"-prefixed placeholder when the chairman failed.
type Stage3Result struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// AggregateEntry is one model's averaged standing across all judges that
// ranked it.
type AggregateEntry struct {
	Model         string  `json:"model"`
	AverageRank   float64 `json:"average_rank"`
	RankingsCount int     `json:"rankings_count"`
}

// Metadata carries the per-run label mapping and aggregate standings. Both
// fields are empty on the total-failure short-circuit path.
type Metadata struct {
	LabelToModel      *LabelMap        `json:"label_to_model,omitempty"`
	AggregateRankings []AggregateEntry `json:"aggregate_rankings,omitempty"`
}

// RunResult is everything a full council run produces.
type RunResult struct {
	Stage1   []Stage1Result `json:"stage1"`
	Stage2   []Stage2Result `json:"stage2"`
	Stage3   Stage3Result   `json:"stage3"`
	Metadata Metadata       `json:"metadata"`
}

// LabelMap is the per-run bijection between synthetic labels ("Response A",
// "Response B", ...) and model identifiers. It preserves insertion order so
// that downstream consumers can iterate labels deterministically. A LabelMap
// is constructed fresh for every pipeline run and never shared across runs.
type LabelMap struct {
	labels  []string
	toModel map[string]string
}

// NewLabelMap returns an empty label map.
func NewLabelMap() *LabelMap {
	return &LabelMap{toModel: make(map[string]string)}
}

// Add records a label for a model. Adding an existing label is a no-op; labels
// are never reused within a run.
func (lm *LabelMap) Add(label, model string) {
	if _, ok := lm.toModel[label]; ok {
		return
	}
	lm.labels = append(lm.labels, label)
	lm.toModel[label] = model
}

// Model resolves a label to its model identifier.
func (lm *LabelMap) Model(label string) (string, bool) {
	if lm == nil {
		return "", false
	}
	model, ok := lm.toModel[label]
	return model, ok
}

// Labels returns the labels in insertion order.
func (lm *LabelMap) Labels() []string {
	if lm == nil {
		return nil
	}
	return lm.labels
}

// Len reports the number of labels.
func (lm *LabelMap) Len() int {
	if lm == nil {
		return 0
	}
	return len(lm.labels)
}

// MarshalJSON renders the map as a plain {label: model} object, preserving
// insertion order.
func (lm *LabelMap) MarshalJSON() ([]byte, error) {
	var buf []byte
	buf = append(buf, '{')
	for i, label := range lm.labels {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(lm.toModel[label])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON restores a label map from a {label: model} object. Insertion
// order is rebuilt from the label sequence ("Response A" sorts before
// "Response B"), which matches how labels are assigned.
func (lm *LabelMap) UnmarshalJSON(data []byte) error {
	raw := make(map[string]string)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lm.labels = lm.labels[:0]
	lm.toModel = make(map[string]string, len(raw))
	for label := range raw {
		lm.labels = append(lm.labels, label)
	}
	sort.Strings(lm.labels)
	for _, label := range lm.labels {
		lm.toModel[label] = raw[label]
	}
	return nil
}
