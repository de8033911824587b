package receiver

import (
	"context"

	go_json "github.com/goccy/go-json"
)

type resultsKey struct{}

func withResults(ctx context.Context, results []go_json.RawMessage) context.Context {
	return context.WithValue(ctx, resultsKey{}, results)
}

// Results returns the verified event batch stored by Middleware.
func Results(ctx context.Context) ([]go_json.RawMessage, bool) {
	results, ok := ctx.Value(resultsKey{}).([]go_json.RawMessage)
	return results, ok
}
