package action_dispatcher

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// shellExecutor runs command lines through the system shell.
type shellExecutor struct{}

func NewShellExecutor() ShellExecutor {
	return &shellExecutor{}
}

func (e *shellExecutor) Run(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %q: %w", command, err)
	}

	return nil
}

// clipboardTyper injects text by placing it on the clipboard and
// synthesizing a paste chord, then restoring the previous clipboard
// contents. Pasting is far more reliable than per-character key synthesis
// for arbitrary text.
type clipboardTyper struct {
	kb keybd_event.KeyBonding
}

func NewClipboardTyper() (TextTyper, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("create key bonding: %w", err)
	}

	// On linux the uinput device needs a moment before synthesized events
	// are accepted.
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}

	kb.SetKeys(keybd_event.VK_V)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}

	return &clipboardTyper{kb: kb}, nil
}

func (t *clipboardTyper) Type(ctx context.Context, text string) error {
	previous, readErr := clipboard.ReadAll()

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	if err := t.kb.Launching(); err != nil {
		return fmt.Errorf("send paste chord: %w", err)
	}

	// Give the focused application time to read the clipboard before the
	// old contents come back.
	select {
	case <-time.After(150 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}

	if readErr == nil {
		if err := clipboard.WriteAll(previous); err != nil {
			return fmt.Errorf("restore clipboard: %w", err)
		}
	}

	return nil
}
