package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"vox-aurora/action_dispatcher"
	"vox-aurora/audio_source"
	"vox-aurora/clients/corrector"
	"vox-aurora/clients/embedding"
	"vox-aurora/command_matcher"
	"vox-aurora/config"
	"vox-aurora/dictionary"
	"vox-aurora/frame_queue"
	"vox-aurora/listener"
	"vox-aurora/logging"
	"vox-aurora/speech_segmenter"
	"vox-aurora/speech_segmenter/vad"
	"vox-aurora/speech_to_text"
	"vox-aurora/transcript_normalizer"
	"vox-aurora/wake_gate"
	"vox-aurora/wave_recorder"
)

const (
	defaultModelPath   = "./models/ggml-small.bin"
	defaultCommandFile = "./commands.json"

	askDevice = -2
)

func main() {
	deviceFlag := flag.Int("d", askDevice, "capture device index, -1 for the system default")
	notifyFlag := flag.Bool("notify", false, "show a desktop notification per dispatched command")
	levelFlag := flag.String("log-level", "info", "log level")
	logFileFlag := flag.String("log-file", "", "also write logs to this file")

	flag.Parse()

	logger := logging.New(&logging.Config{
		Level:   *levelFlag,
		LogFile: *logFileFlag,
	})

	stdin := bufio.NewReader(os.Stdin)

	// Positional arguments: model path first, then one or more command
	// files. Whatever is missing is prompted for.
	args := flag.Args()

	modelPath := ""
	if len(args) > 0 {
		modelPath = args[0]
	}

	if modelPath == "" {
		modelPath = prompt(stdin, "model file", defaultModelPath)
	}

	var commandPaths []string
	if len(args) > 1 {
		commandPaths = args[1:]
	}

	if len(commandPaths) == 0 {
		commandPaths = []string{prompt(stdin, "command file", defaultCommandFile)}
	}

	cfg, err := config.Load(commandPaths)
	if err != nil {
		logger.WithError(err).Fatal("loading configuration")
	}

	cfg.Notify = *notifyFlag

	logger.WithField("commands", len(cfg.Commands)).Info("configuration loaded")

	model, err := whisper.New(modelPath)
	if err != nil {
		logger.WithError(err).WithField("model", modelPath).Fatal("loading model")
	}

	defer model.Close()

	sttEngine, err := speech_to_text.New(&speech_to_text.Config{
		Model:  model,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("speech_to_text.New")
	}

	dict, err := dictionary.Load(&dictionary.Config{
		FileSys:   afero.NewOsFs(),
		CacheDir:  cfg.DictionaryDir,
		Languages: cfg.Languages,
	})
	if err != nil {
		logger.WithError(err).Fatal("loading dictionaries")
	}

	embedder, err := embedding.NewClient(&embedding.Config{
		APIKey:   cfg.OpenAIKey,
		CacheDir: cfg.EmbeddingCache,
	})
	if err != nil {
		logger.WithError(err).Fatal("embedding.NewClient")
	}

	defer embedder.Close()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Minute)

	commandSet, err := command_matcher.LoadCommandSet(loadCtx, cfg.Commands, embedder)

	cancelLoad()

	if err != nil {
		logger.WithError(err).Fatal("embedding command triggers")
	}

	matcher, err := command_matcher.New(&command_matcher.Config{
		Embedder:  embedder,
		Commands:  commandSet,
		Threshold: cfg.MatchThreshold,
		Logger:    logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("command_matcher.New")
	}

	normalizer, err := transcript_normalizer.New(&transcript_normalizer.Config{
		Corrector:  correctionService(logger, cfg.LanguageToolURL),
		Dictionary: dict,
		Logger:     logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("transcript_normalizer.New")
	}

	gate, err := wake_gate.New(&wake_gate.Config{
		Variants:  cfg.WakeVariants,
		Threshold: cfg.WakeThreshold,
		Debounce:  cfg.WakeDebounce,
	})
	if err != nil {
		logger.WithError(err).Fatal("wake_gate.New")
	}

	segmenter, err := speech_segmenter.New(&speech_segmenter.Config{
		Meter:           vad.New(cfg.FrameSize),
		EnergyThreshold: cfg.EnergyThreshold,
		SpeechFrames:    cfg.SpeechFrames,
		HangoverFrames:  cfg.HangoverFrames,
		MinUtterance:    cfg.MinUtterance,
		MaxUtterance:    cfg.MaxUtterance,
	})
	if err != nil {
		logger.WithError(err).Fatal("speech_segmenter.New")
	}

	queue, err := frame_queue.New(&frame_queue.Config{Capacity: cfg.QueueCapacity})
	if err != nil {
		logger.WithError(err).Fatal("frame_queue.New")
	}

	typer, err := action_dispatcher.NewClipboardTyper()
	if err != nil {
		logger.WithError(err).Fatal("initializing text typing")
	}

	dispatcher, err := action_dispatcher.New(&action_dispatcher.Config{
		Shell:  action_dispatcher.NewShellExecutor(),
		Typer:  typer,
		Logger: logger,
		Notify: cfg.Notify,
	})
	if err != nil {
		logger.WithError(err).Fatal("action_dispatcher.New")
	}

	var recorder wave_recorder.Interface

	if cfg.DebugWAVDir != "" {
		recorder, err = wave_recorder.New(&wave_recorder.Config{
			FileSys: afero.NewOsFs(),
			Dir:     cfg.DebugWAVDir,
			Logger:  logger,
		})
		if err != nil {
			logger.WithError(err).Fatal("wave_recorder.New")
		}
	}

	listen, err := listener.New(&listener.Config{
		Queue:      queue,
		Segmenter:  segmenter,
		STTEngine:  sttEngine,
		Gate:       gate,
		Normalizer: normalizer,
		Matcher:    matcher,
		Dispatcher: dispatcher,
		Recorder:   recorder,
		Logger:     logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("listener.New")
	}

	if err := audio_source.Initialize(); err != nil {
		logger.WithError(err).Fatal("initializing audio")
	}

	defer audio_source.Terminate()

	deviceIndex := *deviceFlag
	if deviceIndex == askDevice {
		deviceIndex, err = promptDevice(stdin)
		if err != nil {
			logger.WithError(err).Fatal("selecting capture device")
		}
	}

	source, err := audio_source.New(&audio_source.Config{
		Queue:       queue,
		Logger:      logger,
		SampleRate:  cfg.SampleRate,
		FrameSize:   cfg.FrameSize,
		DeviceIndex: deviceIndex,
	})
	if err != nil {
		logger.WithError(err).Fatal("audio_source.New")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := source.Run(ctx); err != nil {
			logger.WithError(err).Error("audio capture failed")
		}

		cancel()
	}()

	if err := listen.Run(ctx); err != nil {
		logger.WithError(err).Fatal("listener failed")
	}

	logger.Info("shut down")
}

// correctionService probes the LanguageTool server once at startup; when it
// is unreachable the correction pass is disabled rather than failing every
// utterance later.
func correctionService(logger *logrus.Logger, baseURL string) corrector.API {
	client, err := corrector.NewClient(&corrector.Config{BaseURL: baseURL})
	if err != nil {
		logger.WithError(err).Warn("correction service disabled")

		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.WithError(err).WithField("url", baseURL).Warn("correction service unreachable, pass disabled")

		return nil
	}

	return client
}

func prompt(stdin *bufio.Reader, label, fallback string) string {
	fmt.Printf("%s [%s]: ", label, fallback)

	line, err := stdin.ReadString('\n')
	if err != nil {
		return fallback
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}

	return line
}

func promptDevice(stdin *bufio.Reader) (int, error) {
	devices, err := audio_source.ListDevices()
	if err != nil {
		return 0, err
	}

	fmt.Println("capture devices:")

	for _, device := range devices {
		fmt.Printf("  %d: %s (%d ch)\n", device.Index, device.Name, device.Channels)
	}

	answer := prompt(stdin, "device index", "default")
	if answer == "default" {
		return audio_source.DefaultDevice, nil
	}

	index, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("invalid device index %q: %w", answer, err)
	}

	return index, nil
}
