package notify

import (
	"os/exec"

	"github.com/leonardotrapani/quotevoice/internal/logging"
)

const appName = "Quotevoice"

type Notifier interface {
	Notify(title, message string)
	Error(msg string)
}

// Send routes msg to Error or Notify depending on its kind.
func Send(n Notifier, msg Message) {
	if n == nil {
		return
	}
	if msg.IsError {
		n.Error(msg.Body)
		return
	}
	n.Notify(msg.Title, msg.Body)
}

// New picks the notifier for the configured type. Disabled notifications
// still go to the diagnostics log.
func New(enabled bool, typ string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch typ {
	case "desktop":
		return Desktop{}
	case "log":
		return Log{}
	default:
		return Nop{}
	}
}

type Desktop struct{}

func (Desktop) Notify(title, message string) {
	cmd := exec.Command("notify-send", "-a", appName, title, message)
	if err := cmd.Run(); err != nil {
		log := logging.For("notify")
		log.Warn().Err(err).Msg("failed to send notification")
	}
}

func (Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", appName, "-u", "critical", appName+" Error", msg)
	if err := cmd.Run(); err != nil {
		log := logging.For("notify")
		log.Warn().Err(err).Msg("failed to send error notification")
	}
}

// Log writes notifications to the diagnostics log instead of the desktop.
type Log struct{}

func (Log) Notify(title, message string) {
	log := logging.For("notify")
	log.Info().Str("title", title).Msg(message)
}

func (Log) Error(msg string) {
	log := logging.For("notify")
	log.Error().Str("title", appName+" Error").Msg(msg)
}

// Nop is a Notifier that does absolutely nothing.
type Nop struct{}

func (Nop) Notify(title, message string) {}
func (Nop) Error(msg string)             {}

// Multi fans every call out to each notifier in order.
type Multi []Notifier

func (m Multi) Notify(title, message string) {
	for _, n := range m {
		n.Notify(title, message)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}
