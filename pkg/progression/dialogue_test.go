package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogue_StartsIdle(t *testing.T) {
	sp, _, _ := newTestProgression(t)

	assert.False(t, sp.InDialogue())
	assert.Equal(t, DialogueCursor{Character: NoCharacter, Line: 0}, sp.Dialogue())
	_, ok := sp.Line()
	assert.False(t, ok)
}

func TestDialogue_LyraWalkthrough(t *testing.T) {
	sp, p, c := newTestProgression(t)
	lyra := 0

	require.NoError(t, sp.StartDialogue(lyra))
	assert.Equal(t, DialogueCursor{Character: lyra, Line: 0}, sp.Dialogue())

	line, ok := sp.Line()
	require.True(t, ok)
	assert.Equal(t, "Lyra", line.Name)
	assert.Equal(t, 3, line.Total)

	sp.AdvanceDialogue()
	assert.Equal(t, DialogueCursor{Character: lyra, Line: 1}, sp.Dialogue())

	sp.AdvanceDialogue()
	assert.Equal(t, DialogueCursor{Character: lyra, Line: 2}, sp.Dialogue())

	sp.AdvanceDialogue()
	assert.False(t, sp.InDialogue())
	assert.Equal(t, DialogueCursor{Character: NoCharacter, Line: 0}, sp.Dialogue())

	require.Len(t, p.lines, 3)
	for i, l := range p.lines {
		assert.Equal(t, i, l.Line)
		assert.Equal(t, sp.Characters()[lyra].Lines[i], l.Text)
	}
	assert.Equal(t, 1, p.hides)

	assert.Equal(t, []CueKind{
		CueInteractionStarted,
		CueLineSpoken,
		CueLineSpoken,
		CueLineSpoken,
		CueDialogueEnded,
	}, c.kinds())
	assert.Equal(t, Cue{Kind: CueLineSpoken, Segment: 0, Character: lyra, Line: 2}, c.cues[3])
}

func TestDialogue_AdvanceMonotonicForAnyLength(t *testing.T) {
	sp, _, _ := newTestProgression(t)

	for idx, ch := range sp.Characters() {
		if !ch.Interactable {
			continue
		}
		require.NoError(t, sp.StartDialogue(idx))
		for want := 1; want < len(ch.Lines); want++ {
			sp.AdvanceDialogue()
			require.True(t, sp.InDialogue())
			assert.Equal(t, want, sp.Dialogue().Line)
		}
		if sp.InDialogue() {
			sp.AdvanceDialogue()
		}
		assert.False(t, sp.InDialogue(), "character %s", ch.Name)
	}
}

func TestDialogue_StartRejections(t *testing.T) {
	tests := []struct {
		name  string
		index int
		err   error
	}{
		{name: "negative index", index: -1, err: ErrCharacterOutOfRange},
		{name: "past end", index: 3, err: ErrCharacterOutOfRange},
		{name: "not interactable", index: 1, err: ErrNotInteractable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, p, c := newTestProgression(t)

			err := sp.StartDialogue(tt.index)

			assert.ErrorIs(t, err, tt.err)
			assert.False(t, sp.InDialogue())
			assert.Empty(t, p.lines)
			assert.Empty(t, c.cues)
		})
	}
}

func TestDialogue_RejectedStartKeepsActiveDialogue(t *testing.T) {
	sp, _, _ := newTestProgression(t)
	require.NoError(t, sp.StartDialogue(0))
	sp.AdvanceDialogue()

	assert.ErrorIs(t, sp.StartDialogue(1), ErrNotInteractable)
	assert.Equal(t, DialogueCursor{Character: 0, Line: 1}, sp.Dialogue())
}

func TestDialogue_CharacterWithoutLinesEndsImmediately(t *testing.T) {
	sp, p, _ := newTestProgression(t)

	require.NoError(t, sp.StartDialogue(2))

	assert.False(t, sp.InDialogue())
	assert.Empty(t, p.lines)
	assert.Equal(t, 1, p.hides)
}

func TestDialogue_AdvanceWhileIdleIsNoOp(t *testing.T) {
	sp, p, c := newTestProgression(t)

	sp.AdvanceDialogue()

	assert.False(t, sp.InDialogue())
	assert.Empty(t, p.lines)
	assert.Empty(t, c.cues)
}

func TestDialogue_EndFromAnyActiveState(t *testing.T) {
	for line := 0; line < 3; line++ {
		sp, _, c := newTestProgression(t)
		require.NoError(t, sp.StartDialogue(0))
		for i := 0; i < line; i++ {
			sp.AdvanceDialogue()
		}

		sp.EndDialogue()

		assert.Equal(t, DialogueCursor{Character: NoCharacter, Line: 0}, sp.Dialogue())
		last := c.cues[len(c.cues)-1]
		assert.Equal(t, Cue{Kind: CueDialogueEnded, Segment: 0, Character: 0, Line: line}, last)
	}
}

func TestDialogue_EndWhileIdleEmitsNoCue(t *testing.T) {
	sp, p, c := newTestProgression(t)

	sp.EndDialogue()

	assert.Equal(t, 1, p.hides)
	assert.Empty(t, c.cues)
}

func TestDialogue_DoesNotAffectStory(t *testing.T) {
	sp, _, _ := newTestProgression(t)
	require.NoError(t, sp.ShowSegment(1))

	require.NoError(t, sp.StartDialogue(0))
	sp.AdvanceDialogue()
	sp.EndDialogue()

	assert.Equal(t, 1, sp.Current())
	assert.False(t, sp.Completed(1))
}
