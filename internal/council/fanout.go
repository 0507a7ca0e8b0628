// internal/council/fanout.go
package council

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Fanout issues one concurrent query per roster entry and waits for every
// query to settle before returning. The result always holds one entry per
// roster model; a failed query maps to nil. Failures are independent: one
// model's error never cancels or delays the others.
//
// Go maps do not preserve insertion order, so callers that need deterministic
// ordering iterate the roster slice and index into the result, which is how
// the stage collectors consume it. An empty roster returns an empty map with
// no queries issued.
func Fanout(ctx context.Context, q Querier, roster []string, messages []Message) map[string]*ModelResponse {
	results := make(map[string]*ModelResponse, len(roster))
	if len(roster) == 0 {
		return results
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, model := range roster {
		g.Go(func() error {
			resp := q.QuerySingle(ctx, model, messages)

			mu.Lock()
			results[model] = resp
			mu.Unlock()
			return nil // best effort: a nil response is the only failure signal
		})
	}

	// Barrier: no partial results before every query has resolved.
	_ = g.Wait()

	return results
}
