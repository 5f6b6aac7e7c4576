package progression

// CueKind identifies a moment an audio layer may want to react to.
type CueKind string

const (
	CueSegmentShown       CueKind = "segment_shown"
	CueObjectiveCompleted CueKind = "objective_completed"
	CueStoryAdvanced      CueKind = "story_advanced"
	CueInteractionStarted CueKind = "interaction_started"
	CueLineSpoken         CueKind = "line_spoken"
	CueDialogueEnded      CueKind = "dialogue_ended"

	// CueMusic is raised by the game shell when the background track
	// should change. StoryProgression never emits it.
	CueMusic CueKind = "music"
)

// Track is a background music mood.
type Track string

const (
	TrackMenu      Track = "menu"
	TrackPeaceful  Track = "peaceful"
	TrackAdventure Track = "adventure"
)

// Cue is a fire-and-forget notification. Character and Line are -1 when
// they do not apply.
type Cue struct {
	Kind      CueKind `json:"kind"`
	Segment   int     `json:"segment"`
	Character int     `json:"character"`
	Line      int     `json:"line"`
	Track     Track   `json:"track,omitempty"` // set on CueMusic only
}

// MusicCue asks for track as the background music.
func MusicCue(track Track) Cue {
	return Cue{Kind: CueMusic, Segment: -1, Character: NoCharacter, Line: -1, Track: track}
}

// CueSink receives cues. Implementations must not block and must swallow
// their own failures.
type CueSink interface {
	Cue(c Cue)
}

// CueFunc adapts a function to CueSink.
type CueFunc func(Cue)

func (f CueFunc) Cue(c Cue) { f(c) }

type multiCue []CueSink

func (m multiCue) Cue(c Cue) {
	for _, s := range m {
		s.Cue(c)
	}
}

// Cues fans a cue out to every non-nil sink in order.
func Cues(sinks ...CueSink) CueSink {
	var out multiCue
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type nopCues struct{}

func (nopCues) Cue(Cue) {}
