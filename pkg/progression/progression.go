package progression

import (
	"errors"
	"io"
	"log/slog"

	"github.com/jwebster45206/awakening/pkg/story"
)

var (
	ErrNoSegments          = errors.New("progression requires at least one segment")
	ErrSegmentOutOfRange   = errors.New("segment index out of range")
	ErrCharacterOutOfRange = errors.New("character index out of range")
	ErrNotInteractable     = errors.New("character is not interactable")
)

// StoryProgression tracks the story cursor, per-segment completion, and the
// dialogue cursor. It is owned by a single update loop and is not safe for
// concurrent use.
type StoryProgression struct {
	segments   []story.Segment
	completed  []bool
	characters []story.Character

	current  int
	dialogue DialogueCursor

	presenter Presenter
	cues      CueSink
	logger    *slog.Logger
}

// Option configures a StoryProgression.
type Option func(*StoryProgression)

func WithPresenter(p Presenter) Option {
	return func(sp *StoryProgression) {
		if p != nil {
			sp.presenter = p
		}
	}
}

func WithCueSink(c CueSink) Option {
	return func(sp *StoryProgression) {
		if c != nil {
			sp.cues = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(sp *StoryProgression) {
		if l != nil {
			sp.logger = l
		}
	}
}

// New builds a progression over a private copy of the content's segments and
// characters. Nothing is presented until ShowSegment is called.
func New(content *story.Content, opts ...Option) (*StoryProgression, error) {
	if content == nil || len(content.Segments) == 0 {
		return nil, ErrNoSegments
	}

	sp := &StoryProgression{
		segments:   append([]story.Segment(nil), content.Segments...),
		completed:  make([]bool, len(content.Segments)),
		characters: append([]story.Character(nil), content.Characters...),
		dialogue:   DialogueCursor{Character: NoCharacter},
		presenter:  nopPresenter{},
		cues:       nopCues{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp, nil
}

// SegmentCount returns the number of segments.
func (sp *StoryProgression) SegmentCount() int {
	return len(sp.segments)
}

// Current returns the story cursor.
func (sp *StoryProgression) Current() int {
	return sp.current
}

// Completed reports the completion flag of segment i; false when out of range.
func (sp *StoryProgression) Completed(i int) bool {
	if i < 0 || i >= len(sp.completed) {
		return false
	}
	return sp.completed[i]
}

// Segment projects the current segment for display.
func (sp *StoryProgression) Segment() SegmentView {
	return sp.view(sp.current)
}

func (sp *StoryProgression) view(i int) SegmentView {
	seg := sp.segments[i]
	done := sp.completed[i]

	objectives := make([]ObjectiveView, len(seg.Objectives))
	for j, text := range seg.Objectives {
		objectives[j] = ObjectiveView{Text: text, Done: done}
	}

	return SegmentView{
		Index:      i,
		Title:      seg.Title,
		Body:       seg.Body,
		Objectives: objectives,
		Completed:  done,
		Last:       i == len(sp.segments)-1,
	}
}

// ShowSegment moves the story cursor to index and presents that segment.
// An out-of-range index changes nothing and returns ErrSegmentOutOfRange.
func (sp *StoryProgression) ShowSegment(index int) error {
	if index < 0 || index >= len(sp.segments) {
		sp.logger.Warn("Ignoring out-of-range segment", "index", index, "count", len(sp.segments))
		return ErrSegmentOutOfRange
	}

	sp.current = index
	sp.presenter.PresentSegment(sp.view(index))
	sp.cues.Cue(Cue{Kind: CueSegmentShown, Segment: index, Character: NoCharacter, Line: -1})
	sp.logger.Debug("Segment shown", "index", index, "title", sp.segments[index].Title)
	return nil
}

// CompleteObjective marks the whole current segment complete, then checks
// whether the story can move on. Objectives are tracked in aggregate.
func (sp *StoryProgression) CompleteObjective() {
	i := sp.current
	sp.completed[i] = true
	sp.logger.Info("Objective completed", "segment", i)

	sp.presenter.PresentSegment(sp.view(i))
	sp.cues.Cue(Cue{Kind: CueObjectiveCompleted, Segment: i, Character: NoCharacter, Line: -1})

	sp.CheckProgression()
}

// CheckProgression advances the story cursor by exactly one when the
// current segment is complete and is not the last. It reports whether the
// cursor moved.
func (sp *StoryProgression) CheckProgression() bool {
	i := sp.current
	if !sp.completed[i] || i >= len(sp.segments)-1 {
		return false
	}

	sp.current = i + 1
	sp.logger.Info("Story advanced", "from", i, "to", sp.current)
	sp.cues.Cue(Cue{Kind: CueStoryAdvanced, Segment: sp.current, Character: NoCharacter, Line: -1})

	sp.presenter.PresentSegment(sp.view(sp.current))
	sp.cues.Cue(Cue{Kind: CueSegmentShown, Segment: sp.current, Character: NoCharacter, Line: -1})
	return true
}
