package audio

import "math"

// Channel is an output bus with its own volume.
type Channel string

const (
	ChannelMusic    Channel = "music"
	ChannelSFX      Channel = "sfx"
	ChannelVoice    Channel = "voice"
	ChannelNarrator Channel = "narrator"
)

// Mixer holds per-channel volumes in [0,1]. Narration shares the voice volume.
type Mixer struct {
	master float64
	music  float64
	sfx    float64
	voice  float64
}

func NewMixer() *Mixer {
	return &Mixer{master: 1, music: 0.7, sfx: 0.8, voice: 1}
}

func (m *Mixer) SetMaster(v float64) { m.master = clamp01(v) }
func (m *Mixer) SetMusic(v float64)  { m.music = clamp01(v) }
func (m *Mixer) SetSFX(v float64)    { m.sfx = clamp01(v) }
func (m *Mixer) SetVoice(v float64)  { m.voice = clamp01(v) }

func (m *Mixer) Master() float64 { return m.master }

// Volume returns the effective volume for a channel: channel level × master.
func (m *Mixer) Volume(ch Channel) float64 {
	var level float64
	switch ch {
	case ChannelMusic:
		level = m.music
	case ChannelSFX:
		level = m.sfx
	case ChannelVoice, ChannelNarrator:
		level = m.voice
	}
	return level * m.master
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
