// internal/council/prompts.go
package council

import (
	"bytes"
	"fmt"
	"text/template"
)

const rankingPromptTemplate = `You are evaluating anonymized answers to a user's question. The answers are
labeled "Response A", "Response B", and so on; you do not know which model
wrote which answer, and you must not guess.

User's question:
{{.Query}}

{{range .Labeled}}--- {{.Label}} ---
{{.Response}}

{{end}}Evaluate each response for accuracy, depth, and how directly it answers the
question. Discuss the strengths and weaknesses of each one.

Then finish with your verdict in exactly this format, best response first:

FINAL RANKING:
1. Response X
2. Response Y

Use each label at most once and include every response.`

const synthesisPromptTemplate = `You are the chairman of a council of AI models that has deliberated on a
user's question. Synthesize the council's work into one final answer.

User's question:
{{.Query}}

Council answers:
{{range .Stage1}}--- {{.Model}} ---
{{.Response}}

{{end}}Council critiques and rankings:
{{range .Stage2}}--- {{.Model}} ---
{{.Ranking}}

{{end}}Produce the single best answer to the user's question. Draw on the strongest
points across the council's answers and weigh the critiques, but do not
mention the council, the rankings, or individual models. Output only the final
answer.`

const titlePromptTemplate = `Generate a short title (at most 6 words) for a conversation that starts with
this message. Output only the title, with no quotes or punctuation around it.

{{.Query}}`

var (
	rankingTmpl   = template.Must(template.New("ranking").Parse(rankingPromptTemplate))
	synthesisTmpl = template.Must(template.New("synthesis").Parse(synthesisPromptTemplate))
	titleTmpl     = template.Must(template.New("title").Parse(titlePromptTemplate))
)

// labeledResponse pairs a synthetic label with the Stage 1 answer it hides.
type labeledResponse struct {
	Label    string
	Response string
}

func buildRankingPrompt(query string, labeled []labeledResponse) (string, error) {
	data := struct {
		Query   string
		Labeled []labeledResponse
	}{Query: query, Labeled: labeled}

	var buf bytes.Buffer
	if err := rankingTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing ranking template: %w", err)
	}
	return buf.String(), nil
}

func buildSynthesisPrompt(query string, stage1 []Stage1Result, stage2 []Stage2Result) (string, error) {
	data := struct {
		Query  string
		Stage1 []Stage1Result
		Stage2 []Stage2Result
	}{Query: query, Stage1: stage1, Stage2: stage2}

	var buf bytes.Buffer
	if err := synthesisTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing synthesis template: %w", err)
	}
	return buf.String(), nil
}

func buildTitlePrompt(query string) (string, error) {
	var buf bytes.Buffer
	if err := titleTmpl.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return "", fmt.Errorf("executing title template: %w", err)
	}
	return buf.String(), nil
}
