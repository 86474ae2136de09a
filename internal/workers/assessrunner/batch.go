package assessrunner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"maturity/internal/engine"
)

// Result is the outcome for one batch input, in input order.
type Result struct {
	EntityID string         `json:"entity_id"`
	Report   *engine.Report `json:"report,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Batch evaluates inputs with at most concurrency in flight. One entity
// failing never affects the others; a cancelled ctx marks the remaining
// inputs with its error.
func Batch(ctx context.Context, eng *engine.Engine, inputs []engine.Input, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	out := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		out[i].EntityID = in.Entity.ID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out[i].Error = err.Error()
				return nil
			}
			r, err := eng.Evaluate(in)
			if err != nil {
				out[i].Error = err.Error()
				return nil
			}
			out[i].Report = &r
			return nil
		})
	}
	_ = g.Wait()
	return out
}
