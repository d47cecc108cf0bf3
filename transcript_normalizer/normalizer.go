package transcript_normalizer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"vox-aurora/clients/corrector"
	"vox-aurora/dictionary"
)

// Interface post-processes raw transcripts: a grammar/spelling correction
// pass, then a dictionary-verified merge of words the transcription engine
// split apart.
type Interface interface {
	Normalize(ctx context.Context, raw string) string
}

type normalizerImpl struct {
	corrector         corrector.API
	dict              *dictionary.Dictionary
	correctionTimeout time.Duration
	logger            *logrus.Logger
}

type Config struct {
	// Corrector may be nil when no correction service is reachable; the
	// pass is skipped and transcripts flow through unchanged.
	Corrector         corrector.API
	Dictionary        *dictionary.Dictionary
	CorrectionTimeout time.Duration
	Logger            *logrus.Logger
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Dictionary == nil {
		return nil, fmt.Errorf("dictionary is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	timeout := cfg.CorrectionTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &normalizerImpl{
		corrector:         cfg.Corrector,
		dict:              cfg.Dictionary,
		correctionTimeout: timeout,
		logger:            cfg.Logger,
	}, nil
}

func (n *normalizerImpl) Normalize(ctx context.Context, raw string) string {
	corrected := n.correct(ctx, raw)

	return mergeSeparatedWords(corrected, n.dict)
}

// correct runs the external correction pass. Any failure, including a
// timeout, degrades to the original string rather than dropping the
// utterance.
func (n *normalizerImpl) correct(ctx context.Context, raw string) string {
	if n.corrector == nil {
		return raw
	}

	correctCtx, cancel := context.WithTimeout(ctx, n.correctionTimeout)
	defer cancel()

	corrected, err := n.corrector.Correct(correctCtx, raw)
	if err != nil {
		n.logger.WithError(err).Warn("correction failed, keeping raw transcript")

		return raw
	}

	return corrected
}
