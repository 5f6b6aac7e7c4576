package world

import (
	"testing"

	"github.com/jwebster45206/awakening/pkg/story"
	"github.com/stretchr/testify/assert"
)

func TestNewAvatar_DefaultDistance(t *testing.T) {
	assert.Equal(t, DefaultInteractionDistance, NewAvatar(0).InteractionDistance)
	assert.Equal(t, 5.0, NewAvatar(5).InteractionDistance)
}

func TestAvatar_MoveClamps(t *testing.T) {
	a := NewAvatar(3)

	a.Move(2, -1)
	assert.Equal(t, story.Position{X: 2, Y: -1}, a.Position)

	a.Move(100, -100)
	assert.Equal(t, story.Position{X: DefaultHalfExtent, Y: -DefaultHalfExtent}, a.Position)
}

func TestAvatar_Nearest(t *testing.T) {
	characters := []story.Character{
		{Name: "Far", Interactable: true, Position: story.Position{X: 8, Y: 0}},
		{Name: "Statue", Interactable: false, Position: story.Position{X: 1, Y: 0}},
		{Name: "Lyra", Interactable: true, Position: story.Position{X: 0, Y: 3}},
		{Name: "Eldrin", Interactable: true, Position: story.Position{X: 0, Y: 1}},
	}

	tests := []struct {
		name   string
		at     story.Position
		index  int
		inside bool
	}{
		{name: "first in roster order wins", at: story.Position{}, index: 2, inside: true},
		{name: "boundary distance counts", at: story.Position{X: 0, Y: 6}, index: 2, inside: true},
		{name: "nobody close", at: story.Position{X: -9, Y: -9}, index: -1},
		{name: "near far character", at: story.Position{X: 7, Y: 0}, index: 0, inside: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAvatar(3)
			a.Position = tt.at

			idx, ok := a.Nearest(characters)

			assert.Equal(t, tt.inside, ok)
			assert.Equal(t, tt.index, idx)
		})
	}
}
