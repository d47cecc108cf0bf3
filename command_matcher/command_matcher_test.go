package command_matcher

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// stubEmbedder returns fixed vectors per input string.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	vec, ok := s.vectors[text]
	if !ok {
		return []float32{0, 0, 1}, nil
	}

	return vec, nil
}

func (s *stubEmbedder) Close() error { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func newMatcher(t *testing.T, embedder *stubEmbedder, commands []Command, threshold float64) Interface {
	t.Helper()

	m, err := New(&Config{
		Embedder:  embedder,
		Commands:  NewCommandSet(commands),
		Threshold: threshold,
		Logger:    quietLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return m
}

func TestMatch_SelectsMostSimilarCommand(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"open terminal please": {0.9, 0.1, 0},
	}}

	commands := []Command{
		{Trigger: "open terminal", Action: ParseAction("cmd:gnome-terminal"), Embedding: []float32{1, 0, 0}},
		{Trigger: "play music", Action: ParseAction("cmd:mpv"), Embedding: []float32{0, 1, 0}},
	}

	result, err := newMatcher(t, embedder, commands, 0.75).Match(context.Background(), "open terminal please")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if !result.Matched() {
		t.Fatal("expected a match")
	}

	if result.Command.Trigger != "open terminal" {
		t.Errorf("got trigger %q, want %q", result.Command.Trigger, "open terminal")
	}
}

func TestMatch_BelowThresholdIsNoMatch(t *testing.T) {
	// Best similarity ~0.6, far above the second-best, still below τ.
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"write hello world": {0.6, 0.8, 0},
	}}

	commands := []Command{
		{Trigger: "open terminal", Action: ParseAction("cmd:gnome-terminal"), Embedding: []float32{1, 0, 0}},
		{Trigger: "play music", Action: ParseAction("cmd:mpv"), Embedding: []float32{-1, 0, 0}},
	}

	result, err := newMatcher(t, embedder, commands, 0.75).Match(context.Background(), "write hello world")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	if result.Matched() {
		t.Errorf("got match %q with similarity %v, want no match", result.Command.Trigger, result.Similarity)
	}
}

func TestMatch_TieBreaksToFirstLoaded(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"launch it": {1, 0, 0},
	}}

	same := []float32{1, 0, 0}
	commands := []Command{
		{Trigger: "first trigger", Action: ParseAction("echo one"), Embedding: same},
		{Trigger: "second trigger", Action: ParseAction("echo two"), Embedding: same},
	}

	for run := 0; run < 10; run++ {
		result, err := newMatcher(t, embedder, commands, 0.5).Match(context.Background(), "launch it")
		if err != nil {
			t.Fatalf("Match: %v", err)
		}

		if !result.Matched() || result.Command.Trigger != "first trigger" {
			t.Fatalf("run %d: got %+v, want first-loaded command", run, result)
		}
	}
}

func TestMatch_EmbedsTranscriptOnce(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}

	commands := []Command{
		{Trigger: "a", Embedding: []float32{1, 0, 0}},
		{Trigger: "b", Embedding: []float32{0, 1, 0}},
		{Trigger: "c", Embedding: []float32{0, 0, 1}},
	}

	if _, err := newMatcher(t, embedder, commands, 0.75).Match(context.Background(), "anything"); err != nil {
		t.Fatalf("Match: %v", err)
	}

	if embedder.calls != 1 {
		t.Errorf("embedder called %d times, want 1", embedder.calls)
	}
}

func TestMatch_EmbedderFailurePropagates(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("service down")}

	commands := []Command{{Trigger: "a", Embedding: []float32{1, 0, 0}}}

	if _, err := newMatcher(t, embedder, commands, 0.75).Match(context.Background(), "anything"); err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestParseAction(t *testing.T) {
	t.Run("shell command", func(t *testing.T) {
		action := ParseAction("cmd:gnome-terminal --maximize")

		if action.Kind != ActionShell {
			t.Errorf("got kind %v, want ActionShell", action.Kind)
		}

		if action.Payload != "gnome-terminal --maximize" {
			t.Errorf("got payload %q", action.Payload)
		}
	})

	t.Run("typed text", func(t *testing.T) {
		action := ParseAction("Best regards, Aurora")

		if action.Kind != ActionTypeText {
			t.Errorf("got kind %v, want ActionTypeText", action.Kind)
		}

		if action.Payload != "Best regards, Aurora" {
			t.Errorf("got payload %q", action.Payload)
		}
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
