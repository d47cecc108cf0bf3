package command_matcher

import (
	"context"
	"fmt"
	"strings"

	"vox-aurora/clients/embedding"
	"vox-aurora/config"
)

// shellPrefix marks an action string as a shell command line.
const shellPrefix = "cmd:"

type ActionKind int

const (
	// ActionShell runs the payload as a shell command line.
	ActionShell ActionKind = iota
	// ActionTypeText injects the payload as keystrokes.
	ActionTypeText
)

// ActionDescriptor is the tagged form of a command's action field, parsed
// once at config load rather than re-examined on every dispatch.
type ActionDescriptor struct {
	Kind    ActionKind
	Payload string
}

// ParseAction applies the action encoding convention: a literal "cmd:"
// prefix selects a shell command with the remainder as the command line;
// anything else is text to type verbatim.
func ParseAction(raw string) ActionDescriptor {
	if strings.HasPrefix(raw, shellPrefix) {
		return ActionDescriptor{
			Kind:    ActionShell,
			Payload: strings.TrimSpace(strings.TrimPrefix(raw, shellPrefix)),
		}
	}

	return ActionDescriptor{
		Kind:    ActionTypeText,
		Payload: raw,
	}
}

// Command is one configured trigger with its action and precomputed
// embedding vector.
type Command struct {
	Trigger   string
	Action    ActionDescriptor
	Embedding []float32
}

// CommandSet is the ordered, immutable set of configured commands. Insertion
// order is load order and decides ties during matching, so identical configs
// always resolve identically.
type CommandSet struct {
	commands []Command
}

// LoadCommandSet parses the configured entries and embeds every trigger
// phrase up front: matching later costs one embedding call for the
// transcript plus O(commands) vector comparisons.
func LoadCommandSet(ctx context.Context, entries []config.CommandEntry, embedder embedding.API) (*CommandSet, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}

	commands := make([]Command, 0, len(entries))

	for _, entry := range entries {
		vec, err := embedder.Embed(ctx, entry.Trigger)
		if err != nil {
			return nil, fmt.Errorf("embed trigger %q: %w", entry.Trigger, err)
		}

		commands = append(commands, Command{
			Trigger:   entry.Trigger,
			Action:    ParseAction(entry.Action),
			Embedding: vec,
		})
	}

	return &CommandSet{commands: commands}, nil
}

// NewCommandSet builds a set from already-embedded commands, preserving
// order. Used by tests and callers that manage embeddings themselves.
func NewCommandSet(commands []Command) *CommandSet {
	copied := make([]Command, len(commands))
	copy(copied, commands)

	return &CommandSet{commands: copied}
}

func (s *CommandSet) Len() int {
	return len(s.commands)
}

func (s *CommandSet) At(i int) *Command {
	return &s.commands[i]
}
