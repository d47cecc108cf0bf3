package command_matcher

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"vox-aurora/clients/embedding"
)

// Similarities closer than this are considered equal and the first-loaded
// command wins.
const tieTolerance = 1e-6

// MatchResult points at the winning command, or none when nothing cleared
// the threshold and the transcript should be typed literally.
type MatchResult struct {
	Command    *Command
	Similarity float64
}

func (r MatchResult) Matched() bool {
	return r.Command != nil
}

// Interface resolves a normalized transcript against the command set by
// embedding similarity.
type Interface interface {
	Match(ctx context.Context, transcript string) (MatchResult, error)
}

type matcherImpl struct {
	embedder  embedding.API
	commands  *CommandSet
	threshold float64
	logger    *logrus.Logger
}

type Config struct {
	Embedder  embedding.API
	Commands  *CommandSet
	Threshold float64
	Logger    *logrus.Logger
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}

	if cfg.Commands == nil {
		return nil, fmt.Errorf("commands is nil")
	}

	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("threshold must be in (0, 1], got %v", cfg.Threshold)
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	return &matcherImpl{
		embedder:  cfg.Embedder,
		commands:  cfg.Commands,
		threshold: cfg.Threshold,
		logger:    cfg.Logger,
	}, nil
}

// Match embeds the transcript once and compares it against every
// precomputed command vector. Below-threshold maxima are "no match"
// regardless of their margin over the runner-up.
func (m *matcherImpl) Match(ctx context.Context, transcript string) (MatchResult, error) {
	vec, err := m.embedder.Embed(ctx, transcript)
	if err != nil {
		return MatchResult{}, fmt.Errorf("embed transcript: %w", err)
	}

	bestIdx := -1
	bestSim := math.Inf(-1)

	for i := 0; i < m.commands.Len(); i++ {
		sim := cosineSimilarity(vec, m.commands.At(i).Embedding)

		m.logger.WithFields(logrus.Fields{
			"trigger":    m.commands.At(i).Trigger,
			"similarity": fmt.Sprintf("%.3f", sim),
		}).Debug("compared transcript against command")

		// Strictly-better-by-tolerance keeps the first-loaded command on
		// ties, deterministically across runs.
		if sim > bestSim+tieTolerance {
			bestSim = sim
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestSim < m.threshold {
		return MatchResult{Similarity: bestSim}, nil
	}

	return MatchResult{
		Command:    m.commands.At(bestIdx),
		Similarity: bestSim,
	}, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
