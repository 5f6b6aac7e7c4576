package playthrough

import (
	"time"

	"github.com/google/uuid"
)

// Suite is a scripted playthrough of one content file.
type Suite struct {
	Name    string `json:"name"`
	Content string `json:"content"` // content file name under data/content
	Steps   []Step `json:"steps"`
}

// Step applies one input and then checks expectations. Exactly one of
// Signal, Move or Show should be set; a step with none only checks state.
type Step struct {
	Name   string       `json:"name,omitempty"`
	Signal string       `json:"signal,omitempty"` // advance, interact, next_line, cancel
	Move   *Move        `json:"move,omitempty"`
	Show   *int         `json:"show,omitempty"` // jump the story cursor to a segment
	Expect Expectations `json:"expect"`
}

// Move walks the avatar by a relative offset.
type Move struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Expectations are checked after a step. Nil fields are not checked.
type Expectations struct {
	Segment      *int    `json:"segment,omitempty"`
	SegmentTitle *string `json:"segment_title,omitempty"`
	Completed    []int   `json:"completed,omitempty"` // segments that must be complete
	InDialogue   *bool   `json:"in_dialogue,omitempty"`
	Character    *string `json:"character,omitempty"` // name of the character speaking
	Line         *int    `json:"line,omitempty"`
	LineContains string  `json:"line_contains,omitempty"`
	Handled      *bool   `json:"handled,omitempty"` // whether the signal had an effect
}

type ErrorHandlingMode string

const (
	ErrorHandlingExit     ErrorHandlingMode = "exit"
	ErrorHandlingContinue ErrorHandlingMode = "continue"
)

// StepResult is the outcome of one step.
type StepResult struct {
	StepName string
	Success  bool
	Failures []string
	Error    error
}

// RunResult is the outcome of a whole suite.
type RunResult struct {
	SuiteName string
	RunID     uuid.UUID
	Results   []StepResult
	Duration  time.Duration
	Error     error
}

// Passed reports whether every step passed.
func (r RunResult) Passed() bool {
	if r.Error != nil {
		return false
	}
	for _, s := range r.Results {
		if !s.Success {
			return false
		}
	}
	return true
}
