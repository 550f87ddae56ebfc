package tui

import (
	"fmt"
	"strconv"
	"time"
	"unicode"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/quotevoice/internal/config"
)

const maxMenuExponent = 100

// formatTranscriptionLabel formats the transcription menu option
func formatTranscriptionLabel(cfg *config.Config) string {
	lang := cfg.Transcription.Language
	if lang == "" {
		lang = "auto"
	}
	return fmt.Sprintf("Transcription (%s, %s)", cfg.Transcription.Provider, lang)
}

func formatStorageLabel(cfg *config.Config) string {
	return fmt.Sprintf("Quote log (%s)", cfg.Storage.Backend)
}

func formatMetricsLabel(cfg *config.Config) string {
	m := cfg.Metrics
	return fmt.Sprintf("Metrics (exponent %d, range %d-%d)", m.Exponent, m.MinExponent, m.MaxExponent)
}

// formatNotificationsLabel formats the notifications menu option
func formatNotificationsLabel(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "Notifications (disabled)"
	}
	return fmt.Sprintf("Notifications (%s)", cfg.Notifications.Type)
}

func validateLanguage(s string) error {
	if s == "" {
		return nil
	}
	if len(s) != 2 {
		return fmt.Errorf("use a two-letter code like it or en")
	}
	for _, r := range s {
		if !unicode.IsLower(r) {
			return fmt.Errorf("use a two-letter code like it or en")
		}
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("not a duration: %s", s)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateExponent(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number: %s", s)
	}
	if n < 0 || n > maxMenuExponent {
		return fmt.Errorf("must be between 0 and %d", maxMenuExponent)
	}
	return nil
}

const menuHint = "↑/↓ navigate • enter select • esc cancel"

func menuDescription(problem error) string {
	if problem == nil {
		return menuHint
	}
	return StyleError.Render("Invalid configuration: "+problem.Error()) + "\n" + menuHint
}

func showSummary(cfg *config.Config) (bool, error) {
	fmt.Println()
	fmt.Println(StyleHeader.Render("Configuration Summary"))
	fmt.Println()

	t := cfg.Transcription
	fmt.Printf("  %s %s (%s)\n", StyleLabel.Render("Transcription:"), t.Provider, t.Model)
	if t.Language != "" {
		fmt.Printf("  %s %s\n", StyleLabel.Render("Language:"), t.Language)
	}
	if t.Endpoint != "" {
		fmt.Printf("  %s %s\n", StyleLabel.Render("Endpoint:"), t.Endpoint)
	}
	fmt.Printf("  %s %s\n", StyleLabel.Render("Retry audio limit:"), t.MaxRetryDuration)

	path := cfg.Storage.Path
	if path == "" {
		path = "default"
	}
	fmt.Printf("  %s %s (%s)\n", StyleLabel.Render("Quote log:"), cfg.Storage.Backend, path)

	m := cfg.Metrics
	fmt.Printf("  %s %d (offered %d-%d)\n", StyleLabel.Render("Exponent:"), m.Exponent, m.MinExponent, m.MaxExponent)

	if cfg.Notifications.Enabled {
		fmt.Printf("  %s %s\n", StyleLabel.Render("Notifications:"), cfg.Notifications.Type)
	} else {
		fmt.Printf("  %s disabled\n", StyleLabel.Render("Notifications:"))
	}

	fmt.Println()

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}
