package action_dispatcher

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"vox-aurora/command_matcher"
)

type recordingShell struct {
	commands []string
	err      error
}

func (r *recordingShell) Run(_ context.Context, command string) error {
	r.commands = append(r.commands, command)

	return r.err
}

type recordingTyper struct {
	texts []string
	err   error
}

func (r *recordingTyper) Type(_ context.Context, text string) error {
	r.texts = append(r.texts, text)

	return r.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func newDispatcher(t *testing.T, shell *recordingShell, typer *recordingTyper) Interface {
	t.Helper()

	d, err := New(&Config{
		Shell:  shell,
		Typer:  typer,
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return d
}

func matchFor(action string) command_matcher.MatchResult {
	return command_matcher.MatchResult{
		Command: &command_matcher.Command{
			Trigger: "open terminal",
			Action:  command_matcher.ParseAction(action),
		},
		Similarity: 0.9,
	}
}

func TestDispatch_MatchedShellCommand(t *testing.T) {
	shell := &recordingShell{}
	typer := &recordingTyper{}

	newDispatcher(t, shell, typer).Dispatch(context.Background(), matchFor("cmd:gnome-terminal"), "open terminal please")

	if len(shell.commands) != 1 || shell.commands[0] != "gnome-terminal" {
		t.Errorf("got shell commands %v, want [gnome-terminal]", shell.commands)
	}

	if len(typer.texts) != 0 {
		t.Errorf("typed %v for a shell action", typer.texts)
	}
}

func TestDispatch_MatchedTypedText(t *testing.T) {
	shell := &recordingShell{}
	typer := &recordingTyper{}

	newDispatcher(t, shell, typer).Dispatch(context.Background(), matchFor("Best regards"), "sign off")

	if len(typer.texts) != 1 || typer.texts[0] != "Best regards " {
		t.Errorf("got typed texts %v, want [Best regards ]", typer.texts)
	}

	if len(shell.commands) != 0 {
		t.Errorf("ran shell commands %v for a typed action", shell.commands)
	}
}

func TestDispatch_UnmatchedTypesTranscript(t *testing.T) {
	shell := &recordingShell{}
	typer := &recordingTyper{}

	newDispatcher(t, shell, typer).Dispatch(context.Background(), command_matcher.MatchResult{Similarity: 0.4}, "write hello world")

	if len(typer.texts) != 1 || typer.texts[0] != "write hello world " {
		t.Errorf("got typed texts %v, want the transcript with trailing space", typer.texts)
	}

	if len(shell.commands) != 0 {
		t.Errorf("ran shell commands %v for an unmatched transcript", shell.commands)
	}
}

func TestDispatch_ExecutionFailureDoesNotPanic(t *testing.T) {
	shell := &recordingShell{err: errors.New("command not found")}
	typer := &recordingTyper{err: errors.New("no display")}

	d := newDispatcher(t, shell, typer)

	// Both failure paths must only log.
	d.Dispatch(context.Background(), matchFor("cmd:nope"), "x")
	d.Dispatch(context.Background(), command_matcher.MatchResult{}, "y")
}

// blockingTyper only returns once its context expires.
type blockingTyper struct{}

func (b *blockingTyper) Type(ctx context.Context, _ string) error {
	<-ctx.Done()

	return ctx.Err()
}

func TestDispatch_SlowShellCommandIsKilled(t *testing.T) {
	d, err := New(&Config{
		Shell:         NewShellExecutor(),
		Typer:         &recordingTyper{},
		Logger:        quietLogger(),
		ActionTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := time.Now()

	d.Dispatch(context.Background(), matchFor("cmd:sleep 3"), "wait for me")

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Dispatch blocked for %v on a command that never exits", elapsed)
	}
}

func TestDispatch_SlowTypingIsBounded(t *testing.T) {
	d, err := New(&Config{
		Shell:         &recordingShell{},
		Typer:         &blockingTyper{},
		Logger:        quietLogger(),
		ActionTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := time.Now()

	d.Dispatch(context.Background(), command_matcher.MatchResult{}, "some dictation")

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Dispatch blocked for %v on a stuck typer", elapsed)
	}
}

func TestShellExecutor_RunsCommand(t *testing.T) {
	e := NewShellExecutor()

	if err := e.Run(context.Background(), "true"); err != nil {
		t.Errorf("Run(true): %v", err)
	}

	if err := e.Run(context.Background(), "exit 3"); err == nil {
		t.Error("Run(exit 3): expected error")
	}
}

func TestNew_Validation(t *testing.T) {
	logger := quietLogger()

	if _, err := New(nil); err == nil {
		t.Error("expected error for nil config")
	}

	if _, err := New(&Config{Typer: &recordingTyper{}, Logger: logger}); err == nil {
		t.Error("expected error for nil shell")
	}

	if _, err := New(&Config{Shell: &recordingShell{}, Logger: logger}); err == nil {
		t.Error("expected error for nil typer")
	}
}
