package wake_gate

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
)

// State is the process-wide wake state. Only the gate mutates it.
type State int

const (
	Asleep State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}

	return "asleep"
}

// Decision tells the pipeline what to do with an utterance's transcript.
type Decision int

const (
	// Discard: asleep and no wake phrase heard.
	Discard Decision = iota
	// Toggled: the transcript was a wake phrase; state flipped and the
	// utterance is suppressed. A wake utterance is never also
	// command-matched.
	Toggled
	// Forward: active; hand the transcript to normalization and matching.
	Forward
)

// Interface scans raw transcripts for the wake phrase and gates whether they
// reach the command stages.
type Interface interface {
	Scan(rawTranscript string) Decision
	State() State
}

type gateImpl struct {
	mu         sync.Mutex
	state      State
	variants   []string
	threshold  float64
	debounce   time.Duration
	lastToggle time.Time
	now        func() time.Time
}

type Config struct {
	Variants  []string
	Threshold float64
	Debounce  time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if len(cfg.Variants) == 0 {
		return nil, fmt.Errorf("no wake variants configured")
	}

	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("threshold must be in (0, 1], got %v", cfg.Threshold)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	variants := make([]string, len(cfg.Variants))
	for i, v := range cfg.Variants {
		variants[i] = normalize(v)
	}

	return &gateImpl{
		state:     Asleep,
		variants:  variants,
		threshold: cfg.Threshold,
		debounce:  cfg.Debounce,
		now:       now,
	}, nil
}

// Scan runs on the raw transcript, before normalization: wake phrases are
// short and matching must survive transcription noise that the grammar pass
// would mangle further.
func (g *gateImpl) Scan(rawTranscript string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.matches(rawTranscript) {
		if g.now().Sub(g.lastToggle) < g.debounce {
			// The same noisy utterance must not toggle twice, and a
			// duplicated wake phrase is never a command.
			return Discard
		}

		if g.state == Asleep {
			g.state = Active
		} else {
			g.state = Asleep
		}
		g.lastToggle = g.now()

		return Toggled
	}

	if g.state == Active {
		return Forward
	}

	return Discard
}

func (g *gateImpl) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *gateImpl) matches(transcript string) bool {
	text := normalize(transcript)
	if text == "" {
		return false
	}

	for _, variant := range g.variants {
		if strings.Contains(text, variant) {
			return true
		}

		if similarity(text, variant) >= g.threshold {
			return true
		}
	}

	return false
}

// normalize lowercases and strips everything but letters, digits, and single
// spaces, the same reduction the transcription engine's bracketed artifacts
// need before comparison.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			return r
		}

		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}

		return -1
	}, s)

	return strings.Join(strings.Fields(mapped), " ")
}

// similarity maps edit distance to [0, 1]: 1 is an exact match.
func similarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}

	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)

	return 1 - float64(dist)/float64(longest)
}
