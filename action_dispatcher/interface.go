package action_dispatcher

import (
	"context"

	"vox-aurora/command_matcher"
)

// ShellExecutor runs a shell command line.
type ShellExecutor interface {
	Run(ctx context.Context, command string) error
}

// TextTyper injects literal text as keystrokes into the focused window.
type TextTyper interface {
	Type(ctx context.Context, text string) error
}

// Interface turns a match result into an executed action. Dispatch is
// fire-and-forget: failures are logged and the pipeline goes straight back
// to listening.
type Interface interface {
	Dispatch(ctx context.Context, result command_matcher.MatchResult, transcript string)
}
