package listener

import "context"

// Interface drives the processing side of the pipeline: it drains the frame
// queue, segments speech, and routes each utterance through transcription,
// the wake gate, normalization, matching and dispatch.
type Interface interface {
	Run(ctx context.Context) error
}
