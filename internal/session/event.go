package session

import (
	"context"
	"fmt"

	"github.com/leonardotrapani/quotevoice/internal/quotelog"
)

// Event is one input to Controller.Dispatch.
type Event interface {
	isEvent()
}

// RenderPass carries the recording widget's current payload.
type RenderPass struct {
	Audio []byte
}

type ApplyPending struct{}

type FreshRecording struct{}

type Submit struct {
	Text     string
	Exponent int
}

func (RenderPass) isEvent()     {}
func (ApplyPending) isEvent()   {}
func (FreshRecording) isEvent() {}
func (Submit) isEvent()         {}

// Outcome is the result of one dispatched event. Entry is set only by a
// successful submission.
type Outcome struct {
	State   State
	Command Command
	Entry   *quotelog.Entry
}

// Dispatch is the single entry point form of the controller operations.
func (c *Controller) Dispatch(ctx context.Context, st State, ev Event) (Outcome, error) {
	switch ev := ev.(type) {
	case RenderPass:
		next, cmd := c.OnRenderPass(ctx, ev.Audio, st)
		return Outcome{State: next, Command: cmd}, nil
	case ApplyPending:
		return Outcome{State: c.ApplyPending(st)}, nil
	case FreshRecording:
		return Outcome{State: c.RequestFreshRecording(st)}, nil
	case Submit:
		return c.OnSubmit(ev.Text, ev.Exponent, st)
	default:
		return Outcome{State: st}, fmt.Errorf("unknown event %T", ev)
	}
}
