package story

import "encoding/json"

// Segment is one unit of narrative progression. Completion is runtime
// state and lives in the progression core, not here.
type Segment struct {
	Title      string   `json:"title"`                // Heading shown in the story panel
	Body       string   `json:"content"`              // Narrative text
	Objectives []string `json:"objectives,omitempty"` // Objective descriptions, tracked in aggregate
}

// Position is a point on the walkable plane.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Character is someone the player can talk to.
type Character struct {
	Name         string   `json:"name"`
	Lines        []string `json:"dialogues"`
	Interactable bool     `json:"interactable"`
	Position     Position `json:"position"`
}

// UnmarshalJSON defaults Interactable to true when the field is omitted.
func (c *Character) UnmarshalJSON(data []byte) error {
	type alias Character
	a := alias{Interactable: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Character(a)
	return nil
}

// AudioBank names the clips an audio layer may map cues onto.
type AudioBank struct {
	NarratorVoices    []string `json:"narrator_voices,omitempty"`  // Indexed by segment
	CharacterVoices   []string `json:"character_voices,omitempty"` // Shared pool across characters
	Interaction       string   `json:"interaction,omitempty"`
	ObjectiveComplete string   `json:"objective_complete,omitempty"`
	StoryAdvance      string   `json:"story_advance,omitempty"`
	MenuMusic         string   `json:"menu_music,omitempty"`
	PeacefulMusic     string   `json:"peaceful_music,omitempty"`
	AdventureMusic    string   `json:"adventure_music,omitempty"`
}

// Content is the static game data supplied once at startup.
type Content struct {
	Name       string      `json:"name"`
	FileName   string      `json:"file_name,omitempty"`
	Segments   []Segment   `json:"segments"`
	Characters []Character `json:"characters"`
	Audio      AudioBank   `json:"audio"`
}

// CharacterIndex returns the index of the named character, or -1.
func (c *Content) CharacterIndex(name string) int {
	for i := range c.Characters {
		if c.Characters[i].Name == name {
			return i
		}
	}
	return -1
}
