package speech_segmenter

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"vox-aurora/frame_queue"
)

type state int

const (
	stateIdle state = iota
	stateInSpeech
)

type segmenterImpl struct {
	meter EnergyMeter

	threshold    float64
	speechFrames int
	hangover     int
	minUtterance time.Duration
	maxUtterance time.Duration

	state       state
	aboveCount  int
	belowCount  int
	pending     []frame_queue.AudioFrame // debounce run, becomes the utterance head
	hangoverBuf []frame_queue.AudioFrame // trailing quiet frames, trimmed on close
	accumulated []int16
	sampleRate  int
	start       time.Time
}

type Config struct {
	Meter           EnergyMeter
	EnergyThreshold float64
	SpeechFrames    int
	HangoverFrames  int
	MinUtterance    time.Duration
	MaxUtterance    time.Duration
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Meter == nil {
		return nil, fmt.Errorf("meter is nil")
	}

	if cfg.SpeechFrames <= 0 {
		return nil, fmt.Errorf("speech frames must be positive, got %d", cfg.SpeechFrames)
	}

	if cfg.HangoverFrames <= 0 {
		return nil, fmt.Errorf("hangover frames must be positive, got %d", cfg.HangoverFrames)
	}

	if cfg.MaxUtterance > 0 && cfg.MaxUtterance <= cfg.MinUtterance {
		return nil, fmt.Errorf("max utterance %v must exceed min utterance %v", cfg.MaxUtterance, cfg.MinUtterance)
	}

	return &segmenterImpl{
		meter:        cfg.Meter,
		threshold:    cfg.EnergyThreshold,
		speechFrames: cfg.SpeechFrames,
		hangover:     cfg.HangoverFrames,
		minUtterance: cfg.MinUtterance,
		maxUtterance: cfg.MaxUtterance,
	}, nil
}

func (s *segmenterImpl) Feed(frame frame_queue.AudioFrame) []Utterance {
	energy := s.meter.Energy(frame.Samples, frame.SampleRate)

	switch s.state {
	case stateIdle:
		return s.feedIdle(frame, energy)
	case stateInSpeech:
		return s.feedInSpeech(frame, energy)
	}

	return nil
}

func (s *segmenterImpl) feedIdle(frame frame_queue.AudioFrame, energy float64) []Utterance {
	if energy <= s.threshold {
		// a transient ended before the debounce ran out
		s.aboveCount = 0
		s.pending = s.pending[:0]

		return nil
	}

	s.aboveCount++
	s.pending = append(s.pending, frame)

	if s.aboveCount < s.speechFrames {
		return nil
	}

	// Speech confirmed. The utterance spans from the first above-threshold
	// frame, so the debounce run is not lost.
	s.state = stateInSpeech
	s.start = time.Now().Add(-s.pendingDuration())
	s.sampleRate = frame.SampleRate
	s.accumulated = s.accumulated[:0]

	for _, f := range s.pending {
		s.accumulated = append(s.accumulated, f.Samples...)
	}

	s.pending = s.pending[:0]
	s.aboveCount = 0
	s.belowCount = 0

	return s.checkMaxDuration()
}

func (s *segmenterImpl) feedInSpeech(frame frame_queue.AudioFrame, energy float64) []Utterance {
	if energy > s.threshold {
		// A brief pause is part of the utterance; absorb any buffered
		// hangover frames before the new speech frame.
		for _, f := range s.hangoverBuf {
			s.accumulated = append(s.accumulated, f.Samples...)
		}
		s.hangoverBuf = s.hangoverBuf[:0]
		s.belowCount = 0

		s.accumulated = append(s.accumulated, frame.Samples...)

		return s.checkMaxDuration()
	}

	s.belowCount++
	s.hangoverBuf = append(s.hangoverBuf, frame)

	if s.belowCount < s.hangover {
		return nil
	}

	// Hangover elapsed: close the utterance, trimming the quiet tail.
	utt := s.close()
	if utt == nil {
		return nil
	}

	return []Utterance{*utt}
}

// close resets to idle and returns the finished utterance, or nil when it is
// too short to be anything but a noise spike.
func (s *segmenterImpl) close() *Utterance {
	samples := make([]int16, len(s.accumulated))
	copy(samples, s.accumulated)

	utt := &Utterance{
		ID:         uuid.NewString(),
		Samples:    samples,
		SampleRate: s.sampleRate,
		Start:      s.start,
	}
	utt.End = utt.Start.Add(utt.Duration())

	s.reset()

	if utt.Duration() < s.minUtterance {
		return nil
	}

	return utt
}

// checkMaxDuration force-closes an utterance that has grown past the limit,
// bounding memory and dispatch latency during uninterrupted speech.
func (s *segmenterImpl) checkMaxDuration() []Utterance {
	if s.maxUtterance <= 0 {
		return nil
	}

	accumulated := time.Duration(len(s.accumulated)) * time.Second / time.Duration(s.sampleRate)
	if accumulated < s.maxUtterance {
		return nil
	}

	utt := s.close()
	if utt == nil {
		return nil
	}

	return []Utterance{*utt}
}

func (s *segmenterImpl) pendingDuration() time.Duration {
	var n int
	for _, f := range s.pending {
		n += len(f.Samples)
	}

	if len(s.pending) == 0 || s.pending[0].SampleRate == 0 {
		return 0
	}

	return time.Duration(n) * time.Second / time.Duration(s.pending[0].SampleRate)
}

func (s *segmenterImpl) reset() {
	s.state = stateIdle
	s.aboveCount = 0
	s.belowCount = 0
	s.pending = s.pending[:0]
	s.hangoverBuf = s.hangoverBuf[:0]
	s.accumulated = s.accumulated[:0]
	s.start = time.Time{}
}
