package speech_segmenter

import (
	"time"

	"vox-aurora/frame_queue"
)

// Utterance is one contiguous span of detected speech. The segmenter owns it
// until it is handed to the wake gate; spans never overlap and are never
// empty.
type Utterance struct {
	ID         string
	Samples    []int16
	SampleRate int
	Start      time.Time
	End        time.Time
}

// Duration is the audio length of the utterance, derived from its sample
// count rather than wall-clock time.
func (u *Utterance) Duration() time.Duration {
	if u.SampleRate == 0 {
		return 0
	}

	return time.Duration(len(u.Samples)) * time.Second / time.Duration(u.SampleRate)
}

// EnergyMeter reports the per-frame energy used for voice-activity decisions.
type EnergyMeter interface {
	Energy(samples []int16, sampleRate int) float64
}

// Interface consumes capture frames and emits complete utterances. Feed
// returns zero or one utterance per call.
type Interface interface {
	Feed(frame frame_queue.AudioFrame) []Utterance
}
