package audio_source

import "context"

// Device describes a capture device the host exposes.
type Device struct {
	Index    int
	Name     string
	Channels int
}

// Interface captures microphone audio and pushes fixed-size frames into the
// frame queue until the context is cancelled.
type Interface interface {
	Run(ctx context.Context) error
}
