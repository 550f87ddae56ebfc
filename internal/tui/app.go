// Package tui is the interactive terminal front end. Every form run is one
// render pass of the session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/leonardotrapani/quotevoice/internal/audio"
	"github.com/leonardotrapani/quotevoice/internal/config"
	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/leonardotrapani/quotevoice/internal/notify"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/recording"
	"github.com/leonardotrapani/quotevoice/internal/session"
	"github.com/leonardotrapani/quotevoice/internal/transcriber"
)

type action string

const (
	actionSubmit action = "submit"
	actionRecord action = "record"
	actionLoad   action = "load"
	actionFresh  action = "fresh"
	actionLog    action = "log"
	actionQuit   action = "quit"
)

// App is one interactive session.
type App struct {
	cfg      *config.Config
	runner   *session.Runner
	banner   *banner
	messages map[notify.MessageType]notify.Message

	exponent  int // selected in the form
	submitted int // exponent behind LastMetrics

	newSource func(recording.Config) recording.Source
	out       *termenv.Output
	log       zerolog.Logger
}

func NewApp(cfg *config.Config, engine transcriber.BatchAdapter, store quotelog.Store) *App {
	b := &banner{}
	messages := cfg.Notifications.Messages.Resolve()
	ctrl := session.NewController(engine, session.WithMaxRetryDuration(cfg.Transcription.MaxRetryDuration))
	runner := session.NewRunner(ctrl, store, notify.Multi{b, cfg.NewNotifier()}, messages)

	exponent := clampExponent(cfg.Metrics.Exponent, cfg.Metrics.MinExponent, cfg.Metrics.MaxExponent)
	return &App{
		cfg:       cfg,
		runner:    runner,
		banner:    b,
		messages:  messages,
		exponent:  exponent,
		submitted: exponent,
		newSource: func(c recording.Config) recording.Source { return recording.NewRecorder(c) },
		out:       termenv.NewOutput(os.Stdout),
		log:       logging.For("tui").With().Str("session", runner.ID()).Logger(),
	}
}

// Run opens the configured engine and quote log and runs one session until
// the user quits.
func Run(ctx context.Context, cfg *config.Config) error {
	engine, err := transcriber.NewAdapter(cfg.ToTranscriberConfig())
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	store, err := cfg.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open quote log: %w", err)
	}
	defer store.Close()

	return NewApp(cfg, engine, store).Loop(ctx)
}

// Loop alternates render passes and forms until the user quits or ctx ends.
func (a *App) Loop(ctx context.Context) error {
	a.log.Info().Msg("session started")
	defer a.log.Info().Msg("session ended")

	for ctx.Err() == nil {
		a.pass(ctx)
		a.draw()

		act, err := a.prompt()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		quit, err := a.handle(ctx, act)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return nil
}

// pass runs the render pass, behind a spinner when the engine will be called.
func (a *App) pass(ctx context.Context) {
	if !a.runner.WillTranscribe() {
		a.runner.Render(ctx)
		return
	}

	err := spinner.New().
		Title(a.messages[notify.MsgTranscribing].Body).
		Action(func() { a.runner.Render(ctx) }).
		Run()
	if err != nil {
		a.log.Warn().Err(err).Msg("spinner failed")
	}
}

func (a *App) draw() {
	a.out.ClearScreen()
	fmt.Println(Logo())
	fmt.Println(statusLine(a.runner.State()))

	if msgs := a.banner.drain(); msgs != "" {
		fmt.Println()
		fmt.Println(msgs)
	}

	st := a.runner.State()
	if st.HasSubmission() {
		fmt.Println()
		fmt.Printf("  %s %s\n", StyleLabel.Render("Last quote:"), truncate(st.LastQuote, maxQuoteWidth))
		fmt.Println(MetricsView(st.LastMetrics, a.submitted))
	}
	fmt.Println()
}

func (a *App) prompt() (action, error) {
	quote := a.runner.State().QuoteText
	exponent := a.exponent
	act := actionSubmit

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Quote").
				Description("Type a quote or record one. Transcripts land here for review.").
				CharLimit(10000).
				Value(&quote),
			huh.NewSelect[int]().
				Title("Exponent").
				Description("power = words ^ exponent").
				Options(exponentOptions(a.cfg.Metrics.MinExponent, a.cfg.Metrics.MaxExponent)...).
				Value(&exponent),
			huh.NewSelect[action]().
				Title("Action").
				Options(
					huh.NewOption("Submit quote", actionSubmit),
					huh.NewOption("Record from microphone", actionRecord),
					huh.NewOption("Load WAV file", actionLoad),
					huh.NewOption("New recording", actionFresh),
					huh.NewOption("Show quote log", actionLog),
					huh.NewOption("Quit", actionQuit),
				).
				Value(&act),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	a.runner.Type(quote)
	a.exponent = exponent
	return act, nil
}

// handle carries out the chosen action. It reports whether the session ends.
func (a *App) handle(ctx context.Context, act action) (bool, error) {
	switch act {
	case actionSubmit:
		out, err := a.runner.Submit(ctx, a.exponent)
		if err != nil {
			// the runner already raised save_failed
			a.log.Error().Err(err).Msg("submit failed")
			return false, nil
		}
		if out.Entry != nil {
			a.submitted = a.exponent
		}

	case actionRecord:
		payload, err := a.record(ctx)
		if err != nil {
			a.banner.Error(fmt.Sprintf("Recording failed: %v", err))
			return false, nil
		}
		a.runner.Record(payload)

	case actionLoad:
		path, err := promptWAVPath()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return false, nil
			}
			return false, err
		}
		payload, err := loadWAV(path)
		if err != nil {
			a.banner.Error(err.Error())
			return false, nil
		}
		a.runner.Record(payload)

	case actionFresh:
		a.runner.Fresh()

	case actionLog:
		return a.showLog(ctx)

	case actionQuit:
		return true, nil
	}
	return false, nil
}

// record captures from the microphone until the user confirms the stop form.
func (a *App) record(ctx context.Context) ([]byte, error) {
	recCfg := a.cfg.ToRecordingConfig()
	src := a.newSource(recCfg)

	stop := make(chan struct{})
	type result struct {
		payload []byte
		err     error
	}
	done := make(chan result, 1)
	go func() {
		payload, err := recording.Capture(ctx, src, recCfg, stop)
		done <- result{payload, err}
	}()

	var finished bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Recording...").
				Description(fmt.Sprintf("Speak your quote. Stops by itself after %s.", recCfg.Timeout)).
				Affirmative("Stop").
				Negative("").
				Value(&finished),
		),
	).WithTheme(getTheme())
	formErr := form.Run()
	close(stop)

	res := <-done
	if res.err != nil {
		return nil, res.err
	}
	if formErr != nil && !errors.Is(formErr, huh.ErrUserAborted) {
		return nil, formErr
	}
	return res.payload, nil
}

func (a *App) showLog(ctx context.Context) (bool, error) {
	a.out.ClearScreen()
	fmt.Println(StyleHeader.Render("Quote log"))
	fmt.Println(LogView(a.runner.Table(ctx)))
	fmt.Println()

	back := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Affirmative("Back").
				Negative("Quit").
				Value(&back),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return true, nil
		}
		return false, err
	}
	return !back, nil
}

func promptWAVPath() (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("WAV file").
				Description("Path to a recording to use as the audio input").
				Value(&path).
				Validate(func(s string) error {
					_, err := loadWAV(s)
					return err
				}),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return path, nil
}

// loadWAV reads path and checks that it decodes as a WAV recording.
func loadWAV(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("path required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if _, err := audio.Decode(data); err != nil {
		return nil, fmt.Errorf("%s is not a usable recording: %w", path, err)
	}
	return data, nil
}
