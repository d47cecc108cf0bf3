package logging

import (
	"io"
	"os"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// Config controls where and how verbosely the process logs.
type Config struct {
	Level   string
	LogFile string
}

// New returns the process-wide logger, creating it on first call.
func New(cfg *Config) *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()

		level := logrus.InfoLevel
		if cfg != nil && cfg.Level != "" {
			if parsed, err := logrus.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		}
		logger.SetLevel(level)

		logger.SetFormatter(&formatter.Formatter{
			TimestampFormat: "15:04:05.000",
			HideKeys:        false,
		})

		writers := []io.Writer{os.Stderr}

		if cfg != nil && cfg.LogFile != "" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.LogFile,
				LocalTime:  true,
				Compress:   true,
				MaxSize:    50,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}

		logger.SetOutput(io.MultiWriter(writers...))
	})

	return logger
}
