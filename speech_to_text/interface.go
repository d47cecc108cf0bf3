package speech_to_text

import (
	"context"

	"vox-aurora/speech_segmenter"
)

// Transcript is the text the engine heard in one utterance. Confidence is 0
// when the engine does not report one.
type Transcript struct {
	Text       string
	Confidence float64
}

type Interface interface {
	Transcribe(ctx context.Context, utterance speech_segmenter.Utterance) (Transcript, error)
}
