package progression

import "github.com/jwebster45206/awakening/pkg/story"

// Characters returns a copy of the character roster.
func (sp *StoryProgression) Characters() []story.Character {
	return append([]story.Character(nil), sp.characters...)
}

// Dialogue returns the dialogue cursor.
func (sp *StoryProgression) Dialogue() DialogueCursor {
	return sp.dialogue
}

// InDialogue reports whether a dialogue interaction is active.
func (sp *StoryProgression) InDialogue() bool {
	return sp.dialogue.Active()
}

// Line projects the dialogue line currently presented. ok is false while idle.
func (sp *StoryProgression) Line() (v LineView, ok bool) {
	if !sp.dialogue.Active() {
		return LineView{}, false
	}
	ch := sp.characters[sp.dialogue.Character]
	if sp.dialogue.Line >= len(ch.Lines) {
		return LineView{}, false
	}
	return LineView{
		Character: sp.dialogue.Character,
		Name:      ch.Name,
		Line:      sp.dialogue.Line,
		Total:     len(ch.Lines),
		Text:      ch.Lines[sp.dialogue.Line],
	}, true
}

// StartDialogue begins an interaction with the character at index, at its
// first line. Any interaction already in progress is replaced. A character
// with no lines ends the interaction immediately.
func (sp *StoryProgression) StartDialogue(index int) error {
	if index < 0 || index >= len(sp.characters) {
		sp.logger.Warn("Ignoring out-of-range character", "index", index, "count", len(sp.characters))
		return ErrCharacterOutOfRange
	}
	if !sp.characters[index].Interactable {
		sp.logger.Debug("Character not interactable", "index", index, "name", sp.characters[index].Name)
		return ErrNotInteractable
	}

	sp.dialogue = DialogueCursor{Character: index, Line: 0}
	sp.logger.Info("Dialogue started", "character", sp.characters[index].Name)
	sp.cues.Cue(Cue{Kind: CueInteractionStarted, Segment: sp.current, Character: index, Line: -1})

	sp.presentLine()
	return nil
}

// AdvanceDialogue moves to the next line, ending the interaction once the
// character's lines are exhausted. No-op while idle.
func (sp *StoryProgression) AdvanceDialogue() {
	if !sp.dialogue.Active() {
		return
	}
	sp.dialogue.Line++
	sp.presentLine()
}

// EndDialogue clears the dialogue cursor unconditionally.
func (sp *StoryProgression) EndDialogue() {
	was := sp.dialogue
	sp.dialogue = DialogueCursor{Character: NoCharacter, Line: 0}
	sp.presenter.HideDialogue()

	if was.Active() {
		sp.logger.Debug("Dialogue ended", "character", was.Character, "line", was.Line)
		sp.cues.Cue(Cue{Kind: CueDialogueEnded, Segment: sp.current, Character: was.Character, Line: was.Line})
	}
}

func (sp *StoryProgression) presentLine() {
	v, ok := sp.Line()
	if !ok {
		sp.EndDialogue()
		return
	}
	sp.presenter.PresentLine(v)
	sp.cues.Cue(Cue{Kind: CueLineSpoken, Segment: sp.current, Character: v.Character, Line: v.Line})
}
