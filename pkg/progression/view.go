package progression

import "strings"

const (
	objectiveDone    = "[✓]"
	objectivePending = "[ ]"
)

// ObjectiveView is one objective with its display status.
type ObjectiveView struct {
	Text string
	Done bool
}

// SegmentView is a read-only projection of the current segment.
type SegmentView struct {
	Index      int
	Title      string
	Body       string
	Objectives []ObjectiveView
	Completed  bool
	Last       bool
}

// ObjectiveLines renders the objectives block shown under a segment.
func (v SegmentView) ObjectiveLines() string {
	var b strings.Builder
	b.WriteString("Objectives:\n")
	for _, o := range v.Objectives {
		status := objectivePending
		if o.Done {
			status = objectiveDone
		}
		b.WriteString(status + " " + o.Text + "\n")
	}
	return b.String()
}

// LineView is the dialogue line currently presented.
type LineView struct {
	Character int
	Name      string
	Line      int
	Total     int
	Text      string
}

// DialogueCursor points at the presented dialogue line. Character is
// NoCharacter while idle.
type DialogueCursor struct {
	Character int
	Line      int
}

// NoCharacter marks an idle dialogue cursor.
const NoCharacter = -1

// Active reports whether a dialogue interaction is in progress.
func (d DialogueCursor) Active() bool {
	return d.Character != NoCharacter
}

// Presenter is the display collaborator. The core pushes state to it and
// never renders anything itself.
type Presenter interface {
	PresentSegment(v SegmentView)
	PresentLine(v LineView)
	HideDialogue()
}

type nopPresenter struct{}

func (nopPresenter) PresentSegment(SegmentView) {}
func (nopPresenter) PresentLine(LineView)       {}
func (nopPresenter) HideDialogue()              {}
