package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jwebster45206/awakening/internal/audio"
	"github.com/jwebster45206/awakening/internal/storage"
	"github.com/jwebster45206/awakening/internal/world"
	"github.com/jwebster45206/awakening/pkg/progression"
	"github.com/jwebster45206/awakening/pkg/story"
)

// deps are the collaborators a play session is built from.
type deps struct {
	storage   storage.Storage
	logger    *slog.Logger
	mixer     *audio.Mixer
	player    audio.Player
	bus       progression.CueSink // nil when no cue bus is configured
	sessionID string
	distance  float64
	copyText  func(string) error
}

// session is one running story.
type session struct {
	content *story.Content
	sp      *progression.StoryProgression
	ctl     *progression.Controller
	avatar  *world.Avatar
	screen  *screen
	cues    progression.CueSink // router and bus, for cues raised by the console
	mission bool
}

// ConsoleUI is the BubbleTea model that runs the game.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	deps          *deps
	keys          keyMap
	help          help.Model
	storyViewport viewport.Model
	metaViewport  viewport.Model
	session       *session
	ready         bool
	width         int
	height        int
	err           error
	status        string
	hideStory     bool

	// Content selection state
	contentFile      string
	showContentModal bool
	contents         []string
	contentMap       map[string]string
	selectedContent  int
	loadingContent   bool

	// Quit confirmation state
	showQuitModal bool
}

type contentListedMsg struct {
	names      []string
	contentMap map[string]string
	err        error
}

type contentLoadedMsg struct {
	content *story.Content
	err     error
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	dialogueStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

// NewConsoleUI builds the model. With contentFile empty the player picks
// from the content directory.
func NewConsoleUI(d *deps, contentFile string) ConsoleUI {
	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	return ConsoleUI{
		deps:             d,
		keys:             newKeyMap(),
		help:             help.New(),
		storyViewport:    storyVp,
		metaViewport:     viewport.New(20, 20),
		contentFile:      contentFile,
		showContentModal: true,
		loadingContent:   true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.contentFile != "" {
		return m.loadContent(m.contentFile)
	}
	return m.listContent()
}

func (m ConsoleUI) listContent() tea.Cmd {
	return func() tea.Msg {
		contentMap, err := m.deps.storage.ListContent(context.Background())
		if err != nil {
			return contentListedMsg{err: err}
		}
		names := make([]string, 0, len(contentMap))
		for name := range contentMap {
			names = append(names, name)
		}
		sort.Strings(names)
		return contentListedMsg{names: names, contentMap: contentMap}
	}
}

func (m ConsoleUI) loadContent(file string) tea.Cmd {
	return func() tea.Msg {
		c, err := m.deps.storage.GetContent(context.Background(), file)
		return contentLoadedMsg{content: c, err: err}
	}
}

// startSession wires a fresh core to this screen, the audio router and the
// cue bus, then shows the opening segment.
func (m *ConsoleUI) startSession(c *story.Content) error {
	scr := &screen{}
	router := audio.NewRouter(c.Audio, m.deps.mixer, m.deps.player, m.deps.logger)

	cues := progression.Cues(router, m.deps.bus)
	sp, err := progression.New(c,
		progression.WithPresenter(scr),
		progression.WithCueSink(cues),
		progression.WithLogger(m.deps.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to start story: %w", err)
	}

	avatar := world.NewAvatar(m.deps.distance)
	m.session = &session{
		content: c,
		sp:      sp,
		ctl:     progression.NewController(sp, avatar),
		avatar:  avatar,
		screen:  scr,
		cues:    cues,
	}

	cues.Cue(progression.MusicCue(progression.TrackPeaceful))
	if err := sp.ShowSegment(0); err != nil {
		return err
	}
	m.deps.logger.Info("Story started", "content", c.FileName, "segments", sp.SegmentCount())
	return nil
}

func (m *ConsoleUI) layout() {
	storyWidth := int(float64(m.width)*0.65) - 4
	metaWidth := m.width - storyWidth - 6

	m.storyViewport.Width = max(storyWidth-2, 1)
	m.storyViewport.Height = max(m.height-4-m.dialogueHeight(), 1)
	m.metaViewport.Width = max(metaWidth-2, 1)
	m.metaViewport.Height = max(m.height-3, 1)
	m.help.Width = max(storyWidth, 1)
}

func (m ConsoleUI) dialogueHeight() int {
	if m.session == nil || !m.session.screen.speaking {
		return 0
	}
	return lipgloss.Height(m.renderDialogue())
}

// refresh re-renders both panels from the screen state.
func (m *ConsoleUI) refresh() {
	if m.session == nil {
		return
	}
	m.layout()
	width := m.storyViewport.Width - 6
	if m.hideStory {
		m.storyViewport.SetContent(promptStyle.Render("Story panel hidden. Press tab to show it."))
	} else {
		m.storyViewport.SetContent(renderStory(m.session.content.Name, m.session.screen.segment, m.session.sp.SegmentCount(), width))
	}
	m.metaViewport.SetContent(writeMetadata(m.session, m.deps.sessionID))
}

func (m ConsoleUI) renderDialogue() string {
	width := m.storyViewport.Width - 8
	return dialogueStyle.Width(m.storyViewport.Width - 2).Render(renderLine(m.session.screen.line, width))
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	if m.showContentModal {
		return m.updateContentModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var vpCmd tea.Cmd
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	return m, vpCmd
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sess := m.session
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.showQuitModal = true
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if !sess.ctl.Handle(progression.SignalCancel) {
			m.showQuitModal = true
			return m, nil
		}

	case key.Matches(msg, m.keys.Story):
		m.hideStory = !m.hideStory

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Mission):
		sess.mission = !sess.mission
		if sess.mission {
			sess.cues.Cue(progression.MusicCue(progression.TrackAdventure))
			m.status = "Mission mode on"
		} else {
			sess.cues.Cue(progression.MusicCue(progression.TrackPeaceful))
			m.status = "Mission mode off"
		}

	case key.Matches(msg, m.keys.Copy):
		if err := m.deps.copyText(sess.screen.text()); err != nil {
			m.deps.logger.Warn("Failed to copy to clipboard", "error", err)
			m.status = "Clipboard unavailable"
		} else {
			m.status = "Copied to clipboard"
		}

	default:
		if dx, dy, ok := m.keys.step(msg); ok {
			sess.avatar.Move(dx, dy)
			break
		}
		sig, ok := m.keys.signal(msg)
		if !ok {
			return m, nil
		}
		if !sess.ctl.Handle(sig) && sig == progression.SignalInteract {
			if sess.sp.InDialogue() {
				m.status = "Finish this conversation first"
			} else {
				m.status = "Nobody close enough to talk to"
			}
		}
	}

	m.refresh()
	return m, nil
}

func (m ConsoleUI) updateContentModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case contentListedMsg:
		m.loadingContent = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if len(msg.names) == 0 {
			m.err = storage.ErrContentNotFound
			return m, nil
		}
		m.contents = msg.names
		m.contentMap = msg.contentMap
		if len(m.contents) == 1 {
			m.loadingContent = true
			return m, m.loadContent(m.contentMap[m.contents[0]])
		}
		// No content bank is loaded yet, so only a bus listener can play this.
		if m.deps.bus != nil {
			m.deps.bus.Cue(progression.MusicCue(progression.TrackMenu))
		}

	case contentLoadedMsg:
		m.loadingContent = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if err := m.startSession(msg.content); err != nil {
			m.err = err
			return m, nil
		}
		m.showContentModal = false
		m.ready = m.width > 0 && m.height > 0
		m.refresh()

	case tea.KeyMsg:
		if m.loadingContent || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
		case tea.KeyUp:
			if m.selectedContent > 0 {
				m.selectedContent--
			}
		case tea.KeyDown:
			if m.selectedContent < len(m.contents)-1 {
				m.selectedContent++
			}
		case tea.KeyEnter:
			if len(m.contents) > 0 {
				m.loadingContent = true
				return m, m.loadContent(m.contentMap[m.contents[m.selectedContent]])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress will not be saved.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N or Esc to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderContentModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load story: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loadingContent:
		content.WriteString(modalTitleStyle.Render("Loading..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Reading the story files..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Story"))
		content.WriteString("\n\n")
		for i, name := range m.contents {
			if i == m.selectedContent {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showContentModal {
		return m.renderContentModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.65) - 4
	metaWidth := m.width - storyWidth - 6

	left := []string{m.storyViewport.View()}
	if m.session.screen.speaking {
		left = append(left, m.renderDialogue())
	}
	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = loadingStyle.Render(m.status) + "  " + footer
	}
	left = append(left, separatorStyle.Render(strings.Repeat("─", max(storyWidth-4, 1))), footer)

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, left...),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 1).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// copyToClipboard is the default copy function.
func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
