package audio_source

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"vox-aurora/frame_queue"
)

// DefaultDevice selects the host's default input device.
const DefaultDevice = -1

type sourceImpl struct {
	queue       frame_queue.Interface
	logger      *logrus.Logger
	sampleRate  int
	frameSize   int
	deviceIndex int
}

type Config struct {
	Queue      frame_queue.Interface
	Logger     *logrus.Logger
	SampleRate int
	FrameSize  int

	// DeviceIndex is an index into ListDevices, or DefaultDevice.
	DeviceIndex int
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Queue == nil {
		return nil, fmt.Errorf("queue is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive")
	}

	if cfg.FrameSize <= 0 {
		return nil, fmt.Errorf("frame size must be positive")
	}

	return &sourceImpl{
		queue:       cfg.Queue,
		logger:      cfg.Logger,
		sampleRate:  cfg.SampleRate,
		frameSize:   cfg.FrameSize,
		deviceIndex: cfg.DeviceIndex,
	}, nil
}

// Initialize prepares the audio host API. Pair with Terminate.
func Initialize() error {
	return portaudio.Initialize()
}

func Terminate() error {
	return portaudio.Terminate()
}

// ListDevices returns the capture devices the host exposes. Requires
// Initialize to have been called.
func ListDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))

	for i, info := range infos {
		if info.MaxInputChannels == 0 {
			continue
		}

		devices = append(devices, Device{
			Index:    i,
			Name:     info.Name,
			Channels: info.MaxInputChannels,
		})
	}

	return devices, nil
}

func (s *sourceImpl) Run(ctx context.Context) error {
	in := make([]int16, s.frameSize)

	stream, err := s.openStream(in)
	if err != nil {
		return err
	}

	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"sample_rate": s.sampleRate,
		"frame_size":  s.frameSize,
	}).Info("capturing audio")

	var seq uint64

	for {
		select {
		case <-ctx.Done():
			if err := stream.Stop(); err != nil {
				s.logger.WithError(err).Warn("stopping stream failed")
			}

			return nil
		default:
		}

		if err := stream.Read(); err != nil {
			return fmt.Errorf("read stream: %w", err)
		}

		// The stream reuses its buffer, so each frame gets its own copy.
		samples := make([]int16, len(in))
		copy(samples, in)

		s.queue.Push(frame_queue.AudioFrame{
			Samples:    samples,
			SampleRate: s.sampleRate,
			Seq:        seq,
		})

		seq++
	}
}

func (s *sourceImpl) openStream(in []int16) (*portaudio.Stream, error) {
	if s.deviceIndex == DefaultDevice {
		stream, err := portaudio.OpenDefaultStream(1, 0, float64(s.sampleRate), len(in), in)
		if err != nil {
			return nil, fmt.Errorf("open default stream: %w", err)
		}

		return stream, nil
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	if s.deviceIndex < 0 || s.deviceIndex >= len(infos) {
		return nil, fmt.Errorf("device index %d out of range", s.deviceIndex)
	}

	info := infos[s.deviceIndex]

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: 1,
			Latency:  info.DefaultLowInputLatency,
		},
		SampleRate:      float64(s.sampleRate),
		FramesPerBuffer: len(in),
	}

	stream, err := portaudio.OpenStream(params, in)
	if err != nil {
		return nil, fmt.Errorf("open stream on %q: %w", info.Name, err)
	}

	return stream, nil
}
