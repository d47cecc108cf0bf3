package action_dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"

	"vox-aurora/command_matcher"
)

const defaultActionTimeout = 30 * time.Second

type dispatcherImpl struct {
	shell   ShellExecutor
	typer   TextTyper
	logger  *logrus.Logger
	notify  bool
	timeout time.Duration
}

type Config struct {
	Shell  ShellExecutor
	Typer  TextTyper
	Logger *logrus.Logger

	// Notify shows a desktop notification for each dispatched action.
	Notify bool

	// ActionTimeout bounds a single action execution; a command that is
	// still running when it expires is killed so the pipeline goes back to
	// listening.
	ActionTimeout time.Duration
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Shell == nil {
		return nil, fmt.Errorf("shell executor is nil")
	}

	if cfg.Typer == nil {
		return nil, fmt.Errorf("text typer is nil")
	}

	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	timeout := cfg.ActionTimeout
	if timeout == 0 {
		timeout = defaultActionTimeout
	}

	return &dispatcherImpl{
		shell:   cfg.Shell,
		typer:   cfg.Typer,
		logger:  cfg.Logger,
		notify:  cfg.Notify,
		timeout: timeout,
	}, nil
}

// Dispatch runs the matched command's action, or types the transcript
// literally when nothing matched: the system always does something with what
// it heard.
func (d *dispatcherImpl) Dispatch(ctx context.Context, result command_matcher.MatchResult, transcript string) {
	// A runaway action must not hold up the utterances behind it.
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if !result.Matched() {
		d.logger.WithField("text", transcript).Info("no command matched, typing transcript")

		// Trailing space so consecutive dictated fragments don't run
		// together in the target window.
		if err := d.typer.Type(ctx, transcript+" "); err != nil {
			d.logger.WithError(err).Error("typing transcript failed")
		}

		return
	}

	action := result.Command.Action

	switch action.Kind {
	case command_matcher.ActionShell:
		d.logger.WithFields(logrus.Fields{
			"trigger":    result.Command.Trigger,
			"command":    action.Payload,
			"similarity": fmt.Sprintf("%.3f", result.Similarity),
		}).Info("running shell command")

		d.notifyUser("Running: " + action.Payload)

		if err := d.shell.Run(ctx, action.Payload); err != nil {
			d.logger.WithError(err).WithField("command", action.Payload).Error("shell command failed")
		}
	case command_matcher.ActionTypeText:
		d.logger.WithFields(logrus.Fields{
			"trigger": result.Command.Trigger,
			"text":    action.Payload,
		}).Info("typing command text")

		if err := d.typer.Type(ctx, action.Payload+" "); err != nil {
			d.logger.WithError(err).Error("typing command text failed")
		}
	}
}

func (d *dispatcherImpl) notifyUser(message string) {
	if !d.notify {
		return
	}

	if err := beeep.Notify("vox-aurora", message, ""); err != nil {
		d.logger.WithError(err).Debug("desktop notification failed")
	}
}
