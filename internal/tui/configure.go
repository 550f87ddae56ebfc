package tui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leonardotrapani/quotevoice/internal/config"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section
type ConfigSection string

const (
	SectionTranscription ConfigSection = "transcription"
	SectionStorage       ConfigSection = "storage"
	SectionMetrics       ConfigSection = "metrics"
	SectionNotifications ConfigSection = "notifications"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// Configure runs the menu-based editor on a copy of cfg.
func Configure(cfg *config.Config) (*ConfigureResult, error) {
	edited := *cfg
	out := termenv.NewOutput(os.Stdout)

	var problem error
	for {
		out.ClearScreen()
		fmt.Println(Logo())
		fmt.Println()

		section, err := selectSection(&edited, problem)
		problem = nil
		if err != nil {
			return &ConfigureResult{Cancelled: true}, nil
		}

		switch section {
		case SectionSaveExit:
			if err := edited.Validate(); err != nil {
				problem = err
				continue
			}
			confirmed, err := showSummary(&edited)
			if err != nil {
				return &ConfigureResult{Cancelled: true}, nil
			}
			if confirmed {
				return &ConfigureResult{Config: &edited}, nil
			}

		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil

		case SectionTranscription:
			_ = editTranscription(&edited)

		case SectionStorage:
			_ = editStorage(&edited)

		case SectionMetrics:
			_ = editMetrics(&edited)

		case SectionNotifications:
			_ = editNotifications(&edited)
		}
	}
}

// selectSection shows the section menu; problem, when set, is why the last Save & Exit was refused.
func selectSection(cfg *config.Config, problem error) (ConfigSection, error) {
	options := []huh.Option[ConfigSection]{
		huh.NewOption(formatTranscriptionLabel(cfg), SectionTranscription),
		huh.NewOption(formatStorageLabel(cfg), SectionStorage),
		huh.NewOption(formatMetricsLabel(cfg), SectionMetrics),
		huh.NewOption(formatNotificationsLabel(cfg), SectionNotifications),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}

	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description(menuDescription(problem)).
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return selected, nil
}

func editTranscription(cfg *config.Config) error {
	t := &cfg.Transcription
	provider := t.Provider
	model := t.Model
	language := t.Language
	endpoint := t.Endpoint
	retry := t.MaxRetryDuration.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Speech-to-text engine").
				Options(
					huh.NewOption("Whisper.cpp (local, offline)", "whisper-cpp"),
					huh.NewOption("OpenAI or compatible server", "openai"),
				).
				Value(&provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Description("whisper-cpp: path to a ggml model file. openai: model name").
				Value(&model),
			huh.NewInput().
				Title("Language").
				Description("ISO-639-1 code, empty for auto-detect").
				Value(&language).
				Validate(validateLanguage),
			huh.NewInput().
				Title("Endpoint").
				Description("OpenAI-compatible base URL, empty for api.openai.com").
				Value(&endpoint),
			huh.NewInput().
				Title("Retry audio limit").
				Description("Normalized retries keep at most this much audio (e.g. 15s)").
				Value(&retry).
				Validate(validateDuration),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	t.Provider = provider
	t.Model = model
	t.Language = language
	t.Endpoint = endpoint
	t.MaxRetryDuration, _ = time.ParseDuration(retry)
	return nil
}

func editStorage(cfg *config.Config) error {
	backend := cfg.Storage.Backend
	path := cfg.Storage.Path

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Quote log format").
				Options(
					huh.NewOption("Spreadsheet (quotes.xlsx)", quotelog.BackendXLSX),
					huh.NewOption("SQLite database (quotes.db)", quotelog.BackendSQLite),
				).
				Value(&backend),
			huh.NewInput().
				Title("Path").
				Description("Empty uses the default data directory").
				Value(&path),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Storage.Backend = backend
	cfg.Storage.Path = path
	return nil
}

func editMetrics(cfg *config.Config) error {
	m := &cfg.Metrics
	lo := strconv.Itoa(m.MinExponent)
	hi := strconv.Itoa(m.MaxExponent)
	def := strconv.Itoa(m.Exponent)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Lowest exponent").Value(&lo).Validate(validateExponent),
			huh.NewInput().Title("Highest exponent").Value(&hi).Validate(validateExponent),
			huh.NewInput().Title("Default exponent").Value(&def).Validate(validateExponent),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	m.MinExponent, _ = strconv.Atoi(lo)
	m.MaxExponent, _ = strconv.Atoi(hi)
	m.Exponent, _ = strconv.Atoi(def)
	return nil
}

// editNotifications handles the notifications section edit
func editNotifications(cfg *config.Config) error {
	enabled := cfg.Notifications.Enabled
	notifType := cfg.Notifications.Type
	if notifType == "" {
		notifType = "log"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications?").
				Description("Transcript ready, quote saved and failures").
				Value(&enabled),
			huh.NewSelect[string]().
				Title("Notification Type").
				Description("How should notifications be displayed?").
				Options(
					huh.NewOption("Desktop notifications (notify-send)", "desktop"),
					huh.NewOption("Log to console only", "log"),
					huh.NewOption("None (silent)", "none"),
				).
				Value(&notifType),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Notifications.Enabled = enabled
	cfg.Notifications.Type = notifType
	return nil
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
