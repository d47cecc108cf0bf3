package speech_to_text

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/sirupsen/logrus"

	"vox-aurora/speech_segmenter"
)

const defaultTimeout = 30 * time.Second

type sttImpl struct {
	model   whisper.Model
	logger  *logrus.Logger
	timeout time.Duration
}

type Config struct {
	Model  whisper.Model
	Logger *logrus.Logger

	// Timeout bounds a single transcription; an utterance that takes longer
	// is dropped.
	Timeout time.Duration
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Model == nil {
		return nil, fmt.Errorf("model is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &sttImpl{
		model:   cfg.Model,
		logger:  cfg.Logger,
		timeout: timeout,
	}, nil
}

func (stt *sttImpl) Transcribe(ctx context.Context, utterance speech_segmenter.Utterance) (Transcript, error) {
	modelCtx, err := stt.model.NewContext()
	if err != nil {
		return Transcript{}, fmt.Errorf("create model context: %w", err)
	}

	data := engineSamples(utterance.Samples, utterance.SampleRate)

	ctx, cancel := context.WithTimeout(ctx, stt.timeout)
	defer cancel()

	type outcome struct {
		transcript Transcript
		err        error
	}

	done := make(chan outcome, 1)

	// The engine call is blocking C code with no cancellation hook, so it
	// runs on its own goroutine and a timed-out result is discarded.
	go func() {
		var cb whisper.SegmentCallback

		if err := modelCtx.Process(data, cb); err != nil {
			done <- outcome{err: fmt.Errorf("process audio: %w", err)}

			return
		}

		transcript, err := collectTranscript(modelCtx)

		done <- outcome{transcript: transcript, err: err}
	}()

	select {
	case result := <-done:
		return result.transcript, result.err
	case <-ctx.Done():
		stt.logger.WithField("utterance_id", utterance.ID).Warn("transcription timed out")

		return Transcript{}, ctx.Err()
	}
}

func collectTranscript(modelCtx whisper.Context) (Transcript, error) {
	segments := make([]string, 0)

	for {
		segment, err := modelCtx.NextSegment()
		if err == io.EOF {
			break
		} else if err != nil {
			return Transcript{}, fmt.Errorf("read segment: %w", err)
		}

		segments = append(segments, segment.Text)
	}

	return Transcript{Text: joinSegments(segments)}, nil
}

// joinSegments assembles segment texts into one transcript, dropping the
// non-speech artifacts the engine emits as parenthesized or bracketed
// segments and repeated text from hallucinated loops.
func joinSegments(segments []string) string {
	seenText := make(map[string]bool)

	parts := make([]string, 0, len(segments))

	for _, segment := range segments {
		text := strings.TrimSpace(segment)
		if len(text) == 0 {
			continue
		}

		if text[0] == '(' || text[0] == '[' ||
			text[len(text)-1] == ')' || text[len(text)-1] == ']' {
			continue
		}

		if seenText[text] {
			continue
		}
		seenText[text] = true

		parts = append(parts, text)
	}

	return strings.Join(parts, " ")
}
