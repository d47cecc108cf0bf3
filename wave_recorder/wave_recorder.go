// Package wave_recorder dumps each detected utterance to a WAV file for
// offline inspection of what the segmenter actually captured.
package wave_recorder

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/zenwerk/go-wave"

	"vox-aurora/speech_segmenter"
)

type Interface interface {
	Record(utterance speech_segmenter.Utterance) error
}

type recorderImpl struct {
	fileSys afero.Fs
	dir     string
	logger  *logrus.Logger
}

type Config struct {
	FileSys afero.Fs
	Dir     string
	Logger  *logrus.Logger
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("file system is nil")
	}

	if cfg.Dir == "" {
		return nil, fmt.Errorf("directory is empty")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	if err := cfg.FileSys.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recording directory: %w", err)
	}

	return &recorderImpl{
		fileSys: cfg.FileSys,
		dir:     cfg.Dir,
		logger:  cfg.Logger,
	}, nil
}

func (r *recorderImpl) Record(utterance speech_segmenter.Utterance) error {
	filename := filepath.Join(r.dir, utterance.Start.Format("20060102-150405")+"-"+utterance.ID+".wav")

	waveFile, err := r.fileSys.Create(filename)
	if err != nil {
		return fmt.Errorf("create wave file: %w", err)
	}

	param := wave.WriterParam{
		Out:           waveFile,
		Channel:       1,
		SampleRate:    utterance.SampleRate,
		BitsPerSample: 16,
	}

	waveWriter, err := wave.NewWriter(param)
	if err != nil {
		return fmt.Errorf("create wave writer: %w", err)
	}

	if _, err := waveWriter.WriteSample16(utterance.Samples); err != nil {
		waveWriter.Close()

		return fmt.Errorf("write samples: %w", err)
	}

	if err := waveWriter.Close(); err != nil {
		return fmt.Errorf("close wave file: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"file":     filename,
		"duration": utterance.Duration().String(),
	}).Debug("recorded utterance")

	return nil
}
