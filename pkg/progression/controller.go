package progression

import (
	"context"

	"github.com/jwebster45206/awakening/pkg/story"
)

// Signal is an input event, already decoupled from any key or button.
type Signal int

const (
	SignalAdvance  Signal = iota + 1 // objective completed / advance story
	SignalInteract                   // talk to the nearest character
	SignalNextLine                   // next dialogue line
	SignalCancel                     // leave the current dialogue
)

var signalNames = map[Signal]string{
	SignalAdvance:  "advance",
	SignalInteract: "interact",
	SignalNextLine: "next_line",
	SignalCancel:   "cancel",
}

func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSignal maps a signal name back to its value.
func ParseSignal(name string) (Signal, bool) {
	for s, n := range signalNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Proximity finds the character the player is close enough to talk to.
type Proximity interface {
	Nearest(characters []story.Character) (index int, ok bool)
}

// InputSource delivers signals. The channel is closed when input ends.
type InputSource interface {
	Signals() <-chan Signal
}

// Controller translates signals into StoryProgression operations.
type Controller struct {
	sp        *StoryProgression
	proximity Proximity
}

func NewController(sp *StoryProgression, proximity Proximity) *Controller {
	return &Controller{sp: sp, proximity: proximity}
}

// Handle applies one signal and reports whether it had any effect.
func (c *Controller) Handle(sig Signal) bool {
	switch sig {
	case SignalAdvance:
		c.sp.CompleteObjective()
		return true

	case SignalInteract:
		if c.sp.InDialogue() || c.proximity == nil {
			return false
		}
		idx, ok := c.proximity.Nearest(c.sp.characters)
		if !ok {
			return false
		}
		return c.sp.StartDialogue(idx) == nil

	case SignalNextLine:
		if !c.sp.InDialogue() {
			return false
		}
		c.sp.AdvanceDialogue()
		return true

	case SignalCancel:
		if !c.sp.InDialogue() {
			return false
		}
		c.sp.EndDialogue()
		return true
	}

	c.sp.logger.Warn("Unknown signal", "signal", int(sig))
	return false
}

// Run handles signals until the source closes or ctx is done. Signals are
// applied one at a time on the calling goroutine.
func (c *Controller) Run(ctx context.Context, src InputSource) error {
	signals := src.Signals()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			c.Handle(sig)
		}
	}
}

// ChanSource is an InputSource backed by a channel.
type ChanSource chan Signal

func (s ChanSource) Signals() <-chan Signal { return s }
