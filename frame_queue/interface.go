package frame_queue

import "context"

// AudioFrame is a fixed-size chunk of mono signed samples captured from the
// microphone. Frames are immutable once pushed; Seq increases monotonically
// so dropped frames are visible downstream.
type AudioFrame struct {
	Samples    []int16
	SampleRate int
	Seq        uint64
}

// Interface is the hand-off between the real-time capture callback and the
// processing loop. Push must never block; PopBatch blocks the caller until
// at least one frame is available or the context is cancelled.
type Interface interface {
	Push(frame AudioFrame)
	PopBatch(ctx context.Context) ([]AudioFrame, bool)
	Dropped() uint64
}
