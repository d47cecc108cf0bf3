package listener

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"vox-aurora/action_dispatcher"
	"vox-aurora/command_matcher"
	"vox-aurora/frame_queue"
	"vox-aurora/speech_segmenter"
	"vox-aurora/speech_to_text"
	"vox-aurora/transcript_normalizer"
	"vox-aurora/wake_gate"
	"vox-aurora/wave_recorder"
)

const defaultMatchTimeout = 10 * time.Second

type listenerImpl struct {
	queue      frame_queue.Interface
	segmenter  speech_segmenter.Interface
	sttEngine  speech_to_text.Interface
	gate       wake_gate.Interface
	normalizer transcript_normalizer.Interface
	matcher    command_matcher.Interface
	dispatcher action_dispatcher.Interface
	recorder   wave_recorder.Interface
	logger     *logrus.Logger

	matchTimeout time.Duration
	lastDropped  uint64
}

type Config struct {
	Queue      frame_queue.Interface
	Segmenter  speech_segmenter.Interface
	STTEngine  speech_to_text.Interface
	Gate       wake_gate.Interface
	Normalizer transcript_normalizer.Interface
	Matcher    command_matcher.Interface
	Dispatcher action_dispatcher.Interface
	Logger     *logrus.Logger

	// Recorder is optional; when set every utterance is dumped to disk.
	Recorder wave_recorder.Interface

	// MatchTimeout bounds the embed-and-match step per utterance.
	MatchTimeout time.Duration
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Queue == nil {
		return nil, fmt.Errorf("queue is nil")
	}

	if cfg.Segmenter == nil {
		return nil, fmt.Errorf("segmenter is nil")
	}

	if cfg.STTEngine == nil {
		return nil, fmt.Errorf("sttEngine is nil")
	}

	if cfg.Gate == nil {
		return nil, fmt.Errorf("wake gate is nil")
	}

	if cfg.Normalizer == nil {
		return nil, fmt.Errorf("normalizer is nil")
	}

	if cfg.Matcher == nil {
		return nil, fmt.Errorf("matcher is nil")
	}

	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	matchTimeout := cfg.MatchTimeout
	if matchTimeout == 0 {
		matchTimeout = defaultMatchTimeout
	}

	return &listenerImpl{
		queue:        cfg.Queue,
		segmenter:    cfg.Segmenter,
		sttEngine:    cfg.STTEngine,
		gate:         cfg.Gate,
		normalizer:   cfg.Normalizer,
		matcher:      cfg.Matcher,
		dispatcher:   cfg.Dispatcher,
		recorder:     cfg.Recorder,
		logger:       cfg.Logger,
		matchTimeout: matchTimeout,
	}, nil
}

// Run blocks until the context is cancelled. Utterances are handled one at a
// time in arrival order; capture keeps filling the queue meanwhile.
func (l *listenerImpl) Run(ctx context.Context) error {
	l.logger.Info("listening")

	for {
		frames, ok := l.queue.PopBatch(ctx)
		if !ok {
			l.logger.Info("listener stopping")

			return nil
		}

		l.reportDropped()

		for _, frame := range frames {
			for _, utterance := range l.segmenter.Feed(frame) {
				l.handleUtterance(ctx, utterance)
			}
		}
	}
}

func (l *listenerImpl) handleUtterance(ctx context.Context, utterance speech_segmenter.Utterance) {
	log := l.logger.WithFields(logrus.Fields{
		"utterance_id": utterance.ID,
		"duration":     utterance.Duration().String(),
	})

	if l.recorder != nil {
		if err := l.recorder.Record(utterance); err != nil {
			log.WithError(err).Warn("recording utterance failed")
		}
	}

	transcript, err := l.sttEngine.Transcribe(ctx, utterance)
	if err != nil {
		log.WithError(err).Warn("transcription failed, dropping utterance")

		return
	}

	if transcript.Text == "" {
		log.Debug("empty transcript")

		return
	}

	log = log.WithField("text", transcript.Text)

	switch l.gate.Scan(transcript.Text) {
	case wake_gate.Toggled:
		log.WithField("state", l.gate.State().String()).Info("wake phrase detected")

		return
	case wake_gate.Discard:
		log.Debug("discarded while asleep")

		return
	case wake_gate.Forward:
	}

	normalized := l.normalizer.Normalize(ctx, transcript.Text)

	matchCtx, cancel := context.WithTimeout(ctx, l.matchTimeout)
	defer cancel()

	result, err := l.matcher.Match(matchCtx, normalized)
	if err != nil {
		log.WithError(err).Error("matching failed, dropping utterance")

		return
	}

	l.dispatcher.Dispatch(ctx, result, normalized)
}

func (l *listenerImpl) reportDropped() {
	dropped := l.queue.Dropped()
	if dropped == l.lastDropped {
		return
	}

	l.logger.WithField("dropped", dropped-l.lastDropped).Warn("capture frames dropped")

	l.lastDropped = dropped
}
