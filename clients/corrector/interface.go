package corrector

import "context"

// API corrects grammar and spelling in a transcript. Implementations must
// honor the context deadline; the caller falls back to the uncorrected text
// on any error.
type API interface {
	Correct(ctx context.Context, text string) (string, error)
	Ping(ctx context.Context) error
}
