package audio_source

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"vox-aurora/frame_queue"
)

func TestNew_Validation(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	queue, err := frame_queue.New(&frame_queue.Config{Capacity: 4})
	if err != nil {
		t.Fatalf("frame_queue.New: %v", err)
	}

	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "nil config", cfg: nil},
		{name: "nil queue", cfg: &Config{Logger: logger, SampleRate: 16000, FrameSize: 1600}},
		{name: "nil logger", cfg: &Config{Queue: queue, SampleRate: 16000, FrameSize: 1600}},
		{name: "zero sample rate", cfg: &Config{Queue: queue, Logger: logger, FrameSize: 1600}},
		{name: "zero frame size", cfg: &Config{Queue: queue, Logger: logger, SampleRate: 16000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
