// internal/council/types_test.go
package council

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLabelMapPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	lm := NewLabelMap()
	lm.Add("Response A", "openai/gpt-4o")
	lm.Add("Response B", "anthropic/claude-3-opus")
	lm.Add("Response A", "someone-else") // ignored: labels are never reused

	if lm.Len() != 2 {
		t.Fatalf("len %d want 2", lm.Len())
	}
	want := []string{"Response A", "Response B"}
	if !reflect.DeepEqual(lm.Labels(), want) {
		t.Fatalf("labels %v want %v", lm.Labels(), want)
	}
	if model, _ := lm.Model("Response A"); model != "openai/gpt-4o" {
		t.Fatalf("Response A resolves to %q", model)
	}
	if _, ok := lm.Model("Response Z"); ok {
		t.Fatalf("unknown label resolved")
	}
}

func TestLabelMapJSONRoundTrip(t *testing.T) {
	t.Parallel()

	lm := NewLabelMap()
	lm.Add("Response A", "openai/gpt-4o")
	lm.Add("Response B", "anthropic/claude-3-opus")

	data, err := json.Marshal(lm)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Response A":"openai/gpt-4o","Response B":"anthropic/claude-3-opus"}`
	if string(data) != want {
		t.Fatalf("marshal %s want %s", data, want)
	}

	var restored LabelMap
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(restored.Labels(), lm.Labels()) {
		t.Fatalf("restored labels %v want %v", restored.Labels(), lm.Labels())
	}
}

func TestEmptyMetadataMarshalsToEmptyObject(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Metadata{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Fatalf("empty metadata marshals to %s want {}", data)
	}
}

func TestStage2ResultJSONFieldNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Stage2Result{
		Model:         "judge",
		Ranking:       "raw text",
		ParsedRanking: []string{"Response A"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"model", "ranking", "parsed_ranking"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing %s in %s", key, data)
		}
	}
}
