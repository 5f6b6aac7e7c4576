package playthrough

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/awakening/internal/storage"
	"github.com/jwebster45206/awakening/internal/world"
	"github.com/jwebster45206/awakening/pkg/progression"
)

// Runner executes playthrough suites headlessly.
type Runner struct {
	Storage             storage.Storage
	InteractionDistance float64
	ErrorHandlingMode   ErrorHandlingMode
	Logger              *slog.Logger
	Cues                progression.CueSink // optional, receives every cue of the run
}

func NewRunner(s storage.Storage, logger *slog.Logger) *Runner {
	return &Runner{
		Storage:             s,
		InteractionDistance: world.DefaultInteractionDistance,
		ErrorHandlingMode:   ErrorHandlingContinue,
		Logger:              logger,
	}
}

// LoadSuite reads a suite from a JSON file.
func LoadSuite(filename string) (Suite, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Suite{}, fmt.Errorf("failed to read playthrough %s: %w", filename, err)
	}

	var suite Suite
	if err := json.Unmarshal(data, &suite); err != nil {
		return Suite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	return suite, nil
}

// RunSuite plays every step of suite against a fresh progression.
func (r *Runner) RunSuite(ctx context.Context, suite Suite) (RunResult, error) {
	start := time.Now()
	result := RunResult{SuiteName: suite.Name, RunID: uuid.New()}
	log := r.Logger.With("suite", suite.Name, "run_id", result.RunID)

	content, err := r.Storage.GetContent(ctx, suite.Content)
	if err != nil {
		result.Error = fmt.Errorf("failed to load content: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}

	sp, err := progression.New(content, progression.WithLogger(log), progression.WithCueSink(r.Cues))
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, err
	}
	if err := sp.ShowSegment(0); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, err
	}

	avatar := world.NewAvatar(r.InteractionDistance)
	ctrl := progression.NewController(sp, avatar)

	for i, step := range suite.Steps {
		if err := ctx.Err(); err != nil {
			result.Error = err
			break
		}

		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		log.Debug("Running step", "step", name, "index", i+1, "total", len(suite.Steps))

		sr := r.runStep(sp, ctrl, avatar, step)
		sr.StepName = name
		result.Results = append(result.Results, sr)

		if !sr.Success && r.ErrorHandlingMode == ErrorHandlingExit {
			break
		}
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) runStep(sp *progression.StoryProgression, ctrl *progression.Controller, avatar *world.Avatar, step Step) StepResult {
	var handled bool

	switch {
	case step.Signal != "":
		sig, ok := progression.ParseSignal(step.Signal)
		if !ok {
			return StepResult{Error: fmt.Errorf("unknown signal %q", step.Signal)}
		}
		handled = ctrl.Handle(sig)
	case step.Move != nil:
		avatar.Move(step.Move.DX, step.Move.DY)
		handled = true
	case step.Show != nil:
		handled = sp.ShowSegment(*step.Show) == nil
	}

	failures := check(sp, step.Expect, handled)
	return StepResult{Success: len(failures) == 0, Failures: failures}
}

func check(sp *progression.StoryProgression, exp Expectations, handled bool) []string {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	seg := sp.Segment()
	if exp.Segment != nil && seg.Index != *exp.Segment {
		fail("segment: expected %d, got %d", *exp.Segment, seg.Index)
	}
	if exp.SegmentTitle != nil && seg.Title != *exp.SegmentTitle {
		fail("segment title: expected %q, got %q", *exp.SegmentTitle, seg.Title)
	}
	for _, idx := range exp.Completed {
		if !sp.Completed(idx) {
			fail("segment %d: expected completed", idx)
		}
	}
	if exp.InDialogue != nil && sp.InDialogue() != *exp.InDialogue {
		fail("in dialogue: expected %t, got %t", *exp.InDialogue, sp.InDialogue())
	}
	if exp.Handled != nil && handled != *exp.Handled {
		fail("handled: expected %t, got %t", *exp.Handled, handled)
	}

	line, ok := sp.Line()
	if exp.Character != nil {
		switch {
		case !ok:
			fail("character: expected %q, nobody is speaking", *exp.Character)
		case line.Name != *exp.Character:
			fail("character: expected %q, got %q", *exp.Character, line.Name)
		}
	}
	if exp.Line != nil {
		switch {
		case !ok:
			fail("line: expected %d, dialogue is idle", *exp.Line)
		case line.Line != *exp.Line:
			fail("line: expected %d, got %d", *exp.Line, line.Line)
		}
	}
	if exp.LineContains != "" && (!ok || !strings.Contains(line.Text, exp.LineContains)) {
		fail("line text: expected to contain %q, got %q", exp.LineContains, line.Text)
	}

	return failures
}
