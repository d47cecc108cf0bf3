package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// CommandEntry is one trigger/action pair as written in a command file.
// Actions starting with "cmd:" are shell commands; anything else is text to
// be typed when the trigger matches.
type CommandEntry struct {
	Trigger string `json:"trigger"`
	Action  string `json:"action"`
}

type commandFile struct {
	Commands []CommandEntry `json:"commands"`
}

// Config is the full runtime configuration: commands from one or more JSON
// files plus the pipeline tunables and service endpoints.
type Config struct {
	Commands []CommandEntry

	WakeVariants  []string
	WakeThreshold float64
	WakeDebounce  time.Duration

	SampleRate      int
	FrameSize       int
	QueueCapacity   int
	EnergyThreshold float64
	SpeechFrames    int
	HangoverFrames  int
	MinUtterance    time.Duration
	MaxUtterance    time.Duration

	MatchThreshold float64
	Languages      []string

	OpenAIKey       string
	LanguageToolURL string
	EmbeddingCache  string
	DictionaryDir   string

	DebugWAVDir string
	Notify      bool
}

// Default wake phrase variants, including the misrecognitions the
// transcription engine commonly produces for "aurora" and "vox aurora".
var defaultWakeVariants = []string{
	"aurora",
	"auroha",
	"arora",
	"auroura",
	"uroha",
	"laura",
	"vox aurora",
	"vox oroha",
	"vox aurore",
}

const (
	defaultSampleRate    = 16000
	defaultFrameSize     = 1600 // 100ms at 16kHz
	defaultWakeThreshold = 0.7
	defaultWakeDebounce  = time.Second

	defaultEnergyThreshold = 0.012
	defaultSpeechFrames    = 2
	defaultHangoverFrames  = 4
	defaultMinUtterance    = 300 * time.Millisecond
	defaultMaxUtterance    = 15 * time.Second

	defaultMatchThreshold  = 0.75
	defaultLanguageToolURL = "http://localhost:8081"
	defaultEmbeddingCache  = "./cache/embeddings"
	defaultDictionaryDir   = "./dics"
)

// Load reads one or more command files and assembles the runtime config.
// Command lists are concatenated preserving file order then in-file order;
// this ordering is what breaks ties during command matching. A malformed
// file or a command missing its trigger or action is a fatal error.
func Load(paths []string) (*Config, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no command config files given")
	}

	// Missing .env is fine; explicit env always wins.
	_ = godotenv.Load()

	cfg := &Config{
		WakeVariants:  defaultWakeVariants,
		WakeThreshold: defaultWakeThreshold,
		WakeDebounce:  defaultWakeDebounce,

		SampleRate:      defaultSampleRate,
		FrameSize:       defaultFrameSize,
		EnergyThreshold: defaultEnergyThreshold,
		SpeechFrames:    defaultSpeechFrames,
		HangoverFrames:  defaultHangoverFrames,
		MinUtterance:    defaultMinUtterance,
		MaxUtterance:    defaultMaxUtterance,

		MatchThreshold: defaultMatchThreshold,
		Languages:      []string{"en", "fr"},

		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		LanguageToolURL: defaultLanguageToolURL,
		EmbeddingCache:  defaultEmbeddingCache,
		DictionaryDir:   defaultDictionaryDir,

		DebugWAVDir: os.Getenv("VOX_AURORA_DEBUG_WAV"),
	}

	if url := os.Getenv("LANGUAGETOOL_URL"); url != "" {
		cfg.LanguageToolURL = url
	}

	// ~2 seconds of audio buffered between the capture callback and the
	// processing loop before the oldest frames start being dropped.
	cfg.QueueCapacity = 2 * cfg.SampleRate / cfg.FrameSize

	for _, path := range paths {
		entries, err := loadCommandFile(path)
		if err != nil {
			return nil, err
		}

		cfg.Commands = append(cfg.Commands, entries...)
	}

	return cfg, nil
}

func loadCommandFile(path string) ([]CommandEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command file %s: %w", path, err)
	}

	var file commandFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse command file %s: %w", path, err)
	}

	for i, entry := range file.Commands {
		if entry.Trigger == "" {
			return nil, fmt.Errorf("command file %s: command %d has no trigger", path, i)
		}

		if entry.Action == "" {
			return nil, fmt.Errorf("command file %s: command %d has no action", path, i)
		}
	}

	return file.Commands, nil
}
