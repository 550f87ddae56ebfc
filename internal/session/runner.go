package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/quotevoice/internal/logging"
	"github.com/leonardotrapani/quotevoice/internal/notify"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
)

// Runner owns one session's state and carries out the controller's commands.
// It is not safe for concurrent use; each UI session gets its own.
type Runner struct {
	ctrl     *Controller
	store    quotelog.Store
	notifier notify.Notifier
	messages map[notify.MessageType]notify.Message
	state    State
	log      zerolog.Logger
}

// NewRunner starts a new session. A nil messages map uses the built-in texts.
func NewRunner(ctrl *Controller, store quotelog.Store, notifier notify.Notifier, messages map[notify.MessageType]notify.Message) *Runner {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if messages == nil {
		messages = notify.Defaults()
	}
	st := New()
	return &Runner{
		ctrl:     ctrl,
		store:    store,
		notifier: notifier,
		messages: messages,
		state:    st,
		log:      logging.For("session").With().Str("session", st.ID).Logger(),
	}
}

func (r *Runner) State() State { return r.state }

func (r *Runner) ID() string { return r.state.ID }

// Record puts payload into the recording widget.
func (r *Runner) Record(payload []byte) {
	r.state.AudioPayload = payload
}

// Type replaces the quote field contents.
func (r *Runner) Type(text string) {
	r.state.QuoteText = text
}

func (r *Runner) Fresh() {
	r.state = r.ctrl.RequestFreshRecording(r.state)
}

// WillTranscribe reports whether the next Render will block on the engine.
func (r *Runner) WillTranscribe() bool {
	return r.ctrl.WillTranscribe(r.state.AudioPayload, r.state)
}

// Render runs one render pass. A Rerun is honored with one more pass, then
// the pending transcript is applied, so the quote field is ready to build.
// It returns the command of the first pass.
func (r *Runner) Render(ctx context.Context) Command {
	var cmd Command
	r.state, cmd = r.ctrl.OnRenderPass(ctx, r.state.AudioPayload, r.state)
	r.emit(cmd)

	if cmd == Rerun {
		var again Command
		r.state, again = r.ctrl.OnRenderPass(ctx, r.state.AudioPayload, r.state)
		r.emit(again)
	}

	r.state = r.ctrl.ApplyPending(r.state)
	return cmd
}

// Submit submits the quote field with exponent and appends the result to the log.
// A failed save is reported to the notifier and returned; the session goes on.
func (r *Runner) Submit(ctx context.Context, exponent int) (Outcome, error) {
	out, err := r.ctrl.OnSubmit(r.state.QuoteText, exponent, r.state)
	if err != nil {
		return out, err
	}
	r.state = out.State

	if out.Entry != nil {
		if err := quotelog.Append(ctx, r.store, *out.Entry); err != nil {
			r.log.Error().Err(err).Msg("failed to save quote")
			notify.Send(r.notifier, r.messages[notify.MsgSaveFailed])
			return out, fmt.Errorf("save quote: %w", err)
		}
	}

	r.emit(out.Command)
	return out, nil
}

// Table returns the stored quote log, empty when it cannot be read.
func (r *Runner) Table(ctx context.Context) quotelog.Table {
	return quotelog.LoadOrEmpty(ctx, r.store)
}

func (r *Runner) emit(cmd Command) {
	mt, ok := cmd.Message()
	if !ok {
		return
	}
	r.log.Debug().Stringer("command", cmd).Msg("notify")
	notify.Send(r.notifier, r.messages[mt])
}
