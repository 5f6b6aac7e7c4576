package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/awakening/pkg/progression"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Interact key.Binding
	NextLine key.Binding
	Cancel   key.Binding
	Advance  key.Binding
	Story    key.Binding
	Mission  key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "north"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "south"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "west"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "east"),
		),
		Interact: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "talk"),
		),
		NextLine: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "next line"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave"),
		),
		Advance: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "complete objective"),
		),
		Mission: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mission mode"),
		),
		Story: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "story panel"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy text"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Interact, k.NextLine, k.Cancel, k.Advance, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Interact, k.NextLine, k.Cancel},
		{k.Advance, k.Mission, k.Story, k.Copy},
		{k.Help, k.Quit},
	}
}

// signal maps a key press to the story signal it stands for. Cancel is
// resolved by the caller because idle esc opens the quit prompt instead.
func (k keyMap) signal(msg tea.KeyMsg) (progression.Signal, bool) {
	switch {
	case key.Matches(msg, k.Interact):
		return progression.SignalInteract, true
	case key.Matches(msg, k.NextLine):
		return progression.SignalNextLine, true
	case key.Matches(msg, k.Advance):
		return progression.SignalAdvance, true
	}
	return 0, false
}

// step returns the grid step for a movement key.
func (k keyMap) step(msg tea.KeyMsg) (dx, dy float64, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return 0, 1, true
	case key.Matches(msg, k.Down):
		return 0, -1, true
	case key.Matches(msg, k.Left):
		return -1, 0, true
	case key.Matches(msg, k.Right):
		return 1, 0, true
	}
	return 0, 0, false
}
