package world

import (
	"math"

	"github.com/jwebster45206/awakening/pkg/progression"
	"github.com/jwebster45206/awakening/pkg/story"
)

const (
	DefaultInteractionDistance = 3.0
	DefaultHalfExtent          = 10.0
)

// Avatar is the player's position on the walkable plane. Movement is a plain
// grid step; there is no physics.
type Avatar struct {
	Position            story.Position
	InteractionDistance float64
	HalfExtent          float64 // world spans [-HalfExtent, HalfExtent] on both axes
}

var _ progression.Proximity = (*Avatar)(nil)

func NewAvatar(interactionDistance float64) *Avatar {
	if interactionDistance <= 0 {
		interactionDistance = DefaultInteractionDistance
	}
	return &Avatar{
		InteractionDistance: interactionDistance,
		HalfExtent:          DefaultHalfExtent,
	}
}

// Move steps the avatar, clamped to the world bounds.
func (a *Avatar) Move(dx, dy float64) {
	a.Position.X = clamp(a.Position.X+dx, -a.HalfExtent, a.HalfExtent)
	a.Position.Y = clamp(a.Position.Y+dy, -a.HalfExtent, a.HalfExtent)
}

// Distance is the Euclidean distance from the avatar to p.
func (a *Avatar) Distance(p story.Position) float64 {
	return math.Hypot(p.X-a.Position.X, p.Y-a.Position.Y)
}

// Nearest returns the first interactable character, in roster order, within
// interaction distance.
func (a *Avatar) Nearest(characters []story.Character) (int, bool) {
	for i, ch := range characters {
		if !ch.Interactable {
			continue
		}
		if a.Distance(ch.Position) <= a.InteractionDistance {
			return i, true
		}
	}
	return -1, false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
