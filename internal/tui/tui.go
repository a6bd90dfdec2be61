// Package tui renders the game: a character sheet, the scrolling story
// log, action keys, and full-screen overlays for travel, dungeon
// decisions, and the soul-tribulation minigame.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ruqinhu/youxi/internal/minigame"
	"github.com/ruqinhu/youxi/internal/models"
	"github.com/ruqinhu/youxi/internal/session"
)

type mode int

const (
	modeStory mode = iota
	modeTravel
	modeDungeon
	modeTribulation
)

const panelWidth = 30

// Model is the bubbletea model for a running game session.
type Model struct {
	ctrl     *session.Controller
	saveName string

	mode     mode
	viewport viewport.Model
	spinner  spinner.Model
	qiBar    progress.Model
	powerBar progress.Model
	game     *minigame.Game

	width  int
	height int
	ready  bool
	status string
}

// NewModel creates the TUI model around a session controller.
func NewModel(ctrl *session.Controller, saveName string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctrl:     ctrl,
		saveName: saveName,
		spinner:  sp,
		qiBar:    progress.New(progress.WithDefaultGradient()),
		powerBar: progress.New(progress.WithGradient("#3b82f6", "#ef4444")),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

type actionDoneMsg struct{ err error }

type chargeTickMsg struct{}

type flightDoneMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logWidth := m.width - panelWidth - 4
		if logWidth < 20 {
			logWidth = 20
		}
		if !m.ready {
			m.viewport = viewport.New(logWidth, m.height-7)
			m.ready = true
		} else {
			m.viewport.Width = logWidth
			m.viewport.Height = m.height - 7
		}
		m.qiBar.Width = panelWidth - 4
		m.powerBar.Width = 40
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeStory:
			return m.updateStory(msg)
		case modeTravel:
			return m.updateTravel(msg)
		case modeDungeon:
			return m.updateDungeon(msg)
		case modeTribulation:
			return m.updateTribulation(msg)
		}

	case actionDoneMsg:
		if msg.err != nil && msg.err != session.ErrBusy {
			m.status = msg.err.Error()
		}
		m.refreshLog()
		if m.ctrl.Pending() != nil {
			m.mode = modeDungeon
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Thinking() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chargeTickMsg:
		if m.mode != modeTribulation || m.game == nil || m.game.Phase() != minigame.PhaseCharging {
			// A stale tick after release or abort schedules nothing.
			return m, nil
		}
		m.game.ChargeTick()
		return m, chargeTick()

	case flightDoneMsg:
		if m.mode != modeTribulation || m.game == nil {
			return m, nil
		}
		m.game.ResolveLanding()
		return m, nil
	}

	return m, nil
}

func (m Model) updateStory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "m":
		return m.startAction(models.ActionMeditate)
	case "e":
		return m.startAction(models.ActionExplore)
	case "b":
		return m.startAction(models.ActionBreakthrough)
	case "d":
		return m.startAction(models.ActionDungeon)
	case "t":
		if !m.ctrl.Thinking() {
			m.mode = modeTravel
		}
		return m, nil
	case "g":
		if !m.ctrl.Thinking() {
			m.game = m.ctrl.NewTribulation()
			m.mode = modeTribulation
		}
		return m, nil
	case "s":
		if err := m.ctrl.Save(m.saveName); err != nil {
			m.status = fmt.Sprintf("存档失败: %v", err)
		} else {
			m.status = "已存档。"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) startAction(action models.Action) (tea.Model, tea.Cmd) {
	if m.ctrl.Thinking() {
		return m, nil
	}
	m.status = ""
	ctrl := m.ctrl
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return actionDoneMsg{ctrl.Act(context.Background(), action)}
	})
}

func (m Model) updateTravel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeStory
		return m, nil
	case "1", "2", "3", "4", "5":
		idx := int(msg.String()[0] - '1')
		if err := m.ctrl.Travel(models.Locations[idx]); err != nil {
			m.status = err.Error()
		}
		m.mode = modeStory
		m.refreshLog()
		return m, nil
	}
	return m, nil
}

func (m Model) updateDungeon(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		if err := m.ctrl.ResolveDungeon(idx); err != nil {
			m.status = err.Error()
		}
		m.mode = modeStory
		m.refreshLog()
		return m, nil
	}
	// The encounter demands a decision; every other key is ignored.
	return m, nil
}

func (m Model) updateTribulation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.game == nil {
		m.mode = modeStory
		return m, nil
	}

	switch msg.String() {
	case " ", "space":
		switch m.game.Phase() {
		case minigame.PhaseWaiting, minigame.PhaseLanded:
			if err := m.game.StartCharge(); err == nil {
				return m, chargeTick()
			}
		case minigame.PhaseCharging:
			if _, err := m.game.Release(); err == nil {
				return m, tea.Tick(minigame.FlightDuration, func(time.Time) tea.Msg {
					return flightDoneMsg{}
				})
			}
		}
		return m, nil
	case "enter":
		if m.game.Phase() == minigame.PhaseFailed || m.game.Phase() == minigame.PhaseLanded ||
			m.game.Phase() == minigame.PhaseWaiting {
			score := m.game.Finish()
			m.ctrl.FinishTribulation(score)
			m.game = nil
			m.mode = modeStory
			m.refreshLog()
		}
		return m, nil
	case "esc", "q":
		m.game.Abort()
		m.ctrl.FinishTribulation(0)
		m.game = nil
		m.mode = modeStory
		m.refreshLog()
		return m, nil
	}
	return m, nil
}

func chargeTick() tea.Cmd {
	return tea.Tick(minigame.TickInterval, func(time.Time) tea.Msg {
		return chargeTickMsg{}
	})
}

func (m *Model) refreshLog() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

// Run starts the TUI event loop.
func Run(ctrl *session.Controller, saveName string) error {
	p := tea.NewProgram(NewModel(ctrl, saveName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
