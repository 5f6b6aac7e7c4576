package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jwebster45206/awakening/pkg/progression"
	"github.com/jwebster45206/awakening/pkg/story"
)

// voiceStride spreads each character's lines across the shared voice pool.
const voiceStride = 10

// Playback is a resolved request to play one clip.
type Playback struct {
	Channel Channel `json:"channel"`
	Clip    string  `json:"clip"`
	Volume  float64 `json:"volume"`
}

// Player plays clips. Play must return promptly.
type Player interface {
	Play(ctx context.Context, p Playback) error
}

// Router maps progression cues onto clips from an AudioBank. It is not safe
// for concurrent use.
type Router struct {
	bank   story.AudioBank
	mixer  *Mixer
	player Player
	logger *slog.Logger
	music  string // clip of the track currently playing
}

var _ progression.CueSink = (*Router)(nil)

func NewRouter(bank story.AudioBank, mixer *Mixer, player Player, logger *slog.Logger) *Router {
	if mixer == nil {
		mixer = NewMixer()
	}
	return &Router{bank: bank, mixer: mixer, player: player, logger: logger}
}

// Resolve returns the playback for a cue, if the bank has a clip for it.
func (r *Router) Resolve(c progression.Cue) (Playback, bool) {
	var ch Channel
	var clip string

	switch c.Kind {
	case progression.CueSegmentShown:
		if c.Segment < 0 || c.Segment >= len(r.bank.NarratorVoices) {
			return Playback{}, false
		}
		ch, clip = ChannelNarrator, r.bank.NarratorVoices[c.Segment]
	case progression.CueLineSpoken:
		// Only the first n characters have a voice.
		n := len(r.bank.CharacterVoices)
		if n == 0 || c.Character < 0 || c.Character >= n || c.Line < 0 {
			return Playback{}, false
		}
		ch, clip = ChannelVoice, r.bank.CharacterVoices[(c.Character*voiceStride+c.Line)%n]
	case progression.CueInteractionStarted:
		ch, clip = ChannelSFX, r.bank.Interaction
	case progression.CueObjectiveCompleted:
		ch, clip = ChannelSFX, r.bank.ObjectiveComplete
	case progression.CueStoryAdvanced:
		ch, clip = ChannelSFX, r.bank.StoryAdvance
	case progression.CueMusic:
		ch, clip = ChannelMusic, r.track(c.Track)
	default:
		return Playback{}, false
	}

	if clip == "" {
		return Playback{}, false
	}
	return Playback{Channel: ch, Clip: clip, Volume: r.mixer.Volume(ch)}, true
}

func (r *Router) track(t progression.Track) string {
	switch t {
	case progression.TrackMenu:
		return r.bank.MenuMusic
	case progression.TrackPeaceful:
		return r.bank.PeacefulMusic
	case progression.TrackAdventure:
		return r.bank.AdventureMusic
	}
	return ""
}

// Music returns the clip of the current background track, if any.
func (r *Router) Music() string {
	return r.music
}

// Cue plays the clip for c. A music cue for the track already playing is
// ignored. Player failures are logged and dropped.
func (r *Router) Cue(c progression.Cue) {
	p, ok := r.Resolve(c)
	if !ok || r.player == nil {
		return
	}
	if p.Channel == ChannelMusic {
		if p.Clip == r.music {
			return
		}
		r.music = p.Clip
	}
	if err := r.player.Play(context.Background(), p); err != nil {
		r.logger.Warn("Failed to play clip", "clip", p.Clip, "channel", p.Channel, "error", err)
	}
}

// LogPlayer records playbacks in the log instead of producing sound.
type LogPlayer struct {
	Logger *slog.Logger
}

func (l LogPlayer) Play(_ context.Context, p Playback) error {
	l.Logger.Info("Playing clip", "channel", p.Channel, "clip", p.Clip, "volume", fmt.Sprintf("%.2f", p.Volume))
	return nil
}

// BellPlayer rings the terminal bell for sound effects and ignores voices.
type BellPlayer struct {
	Out *os.File
}

func (b BellPlayer) Play(_ context.Context, p Playback) error {
	if p.Channel != ChannelSFX || p.Volume == 0 {
		return nil
	}
	out := b.Out
	if out == nil {
		out = os.Stderr
	}
	_, err := out.WriteString("\a")
	return err
}
