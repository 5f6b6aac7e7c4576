package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/awakening/internal/world"
	"github.com/jwebster45206/awakening/pkg/progression"
	"github.com/jwebster45206/awakening/pkg/story"
)

var (
	upper = cases.Upper(language.English)
	title = cases.Title(language.English)
)

// screen is the console's Presenter. It keeps the last pushed views; the
// bubbletea model renders from it.
type screen struct {
	segment  progression.SegmentView
	line     progression.LineView
	speaking bool
}

var _ progression.Presenter = (*screen)(nil)

func (s *screen) PresentSegment(v progression.SegmentView) {
	s.segment = v
}

func (s *screen) PresentLine(v progression.LineView) {
	s.line = v
	s.speaking = true
}

func (s *screen) HideDialogue() {
	s.speaking = false
	s.line = progression.LineView{}
}

// text is what the copy key puts on the clipboard.
func (s *screen) text() string {
	if s.speaking {
		return s.line.Name + ": " + s.line.Text
	}
	return s.segment.Title + "\n\n" + s.segment.Body + "\n\n" + s.segment.ObjectiveLines()
}

func renderStory(storyName string, v progression.SegmentView, total, width int) string {
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(upper.String(storyName)) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	heading := fmt.Sprintf("%s  (%d/%d)", title.String(v.Title), v.Index+1, total)
	content.WriteString(speakerStyle.Render(heading) + "\n\n")
	content.WriteString(narratorStyle.Render(wordwrap.String(v.Body, width)) + "\n\n")

	content.WriteString("Objectives:\n")
	for _, o := range v.Objectives {
		if o.Done {
			content.WriteString(doneStyle.Render("[✓] "+o.Text) + "\n")
		} else {
			content.WriteString("[ ] " + o.Text + "\n")
		}
	}

	if v.Completed && v.Last {
		content.WriteString("\n" + titleStyle.Render("The story is complete.") + "\n")
	}
	return content.String()
}

func renderLine(v progression.LineView, width int) string {
	if width < 20 {
		width = 20
	}
	var content strings.Builder
	content.WriteString(speakerStyle.Render(v.Name+":") + "\n")
	content.WriteString(wordwrap.String(v.Text, width) + "\n\n")
	content.WriteString(promptStyle.Render(fmt.Sprintf("line %d/%d · enter: next · esc: leave", v.Line+1, v.Total)))
	return content.String()
}

// renderMap draws the walkable plane at one cell per unit across and two
// units per row, with the avatar as @ and characters by initial.
func renderMap(a *world.Avatar, characters []story.Character) string {
	half := int(a.HalfExtent)
	cols := 2*half + 1
	rows := half + 1

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat("·", cols))
	}

	place := func(p story.Position, mark rune) {
		col := int(math.Round(p.X)) + half
		down := half - int(math.Round(p.Y))
		row := down / 2
		if col < 0 || col >= cols || down < 0 || row >= rows {
			return
		}
		grid[row][col] = mark
	}

	for _, ch := range characters {
		mark := '?'
		if ch.Name != "" {
			mark = []rune(upper.String(ch.Name))[0]
		}
		place(ch.Position, mark)
	}
	place(a.Position, '@')

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return strings.Join(lines, "\n")
}

func writeMetadata(sess *session, sessionID string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("WORLD") + "\n\n")

	if sessionID != "" {
		content.WriteString("Session:\n")
		content.WriteString(sessionID[:8] + "...\n\n")
	}

	content.WriteString("Content:\n")
	content.WriteString(sess.content.FileName + "\n\n")

	content.WriteString("Position:\n")
	content.WriteString(fmt.Sprintf("%.0f, %.0f\n\n", sess.avatar.Position.X, sess.avatar.Position.Y))

	content.WriteString(renderMap(sess.avatar, sess.sp.Characters()) + "\n\n")

	content.WriteString("Nearby:\n")
	if idx, ok := sess.avatar.Nearest(sess.sp.Characters()); ok {
		content.WriteString("• " + sess.sp.Characters()[idx].Name + " (e to talk)\n")
	} else {
		content.WriteString("Nobody\n")
	}

	return content.String()
}
