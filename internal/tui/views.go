package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ruqinhu/youxi/internal/minigame"
	"github.com/ruqinhu/youxi/internal/models"
)

func (m Model) View() string {
	if !m.ready {
		return "\n  推演天机中..."
	}

	header := styleTitle.Render("紫极生青：九霄")

	var center string
	switch m.mode {
	case modeTravel:
		center = m.travelView()
	case modeDungeon:
		center = m.dungeonView()
	case modeTribulation:
		center = m.tribulationView()
	default:
		center = m.storyView()
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.characterPanel(), center)

	status := m.status
	if status != "" {
		status = styleSystem.Render(status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, main, status)
}

func (m Model) storyView() string {
	thinking := ""
	if m.ctrl.Thinking() {
		thinking = m.spinner.View() + styleSystem.Render(" 天道推演中...")
	}

	help := styleHelp.Render("[m]打坐 [e]探索 [b]突破 [d]无尽副本 [t]移动 [g]神魂渡劫 [s]存档 [q]退出")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		thinking,
		help,
	)
}

func (m Model) renderLog() string {
	state := m.ctrl.State()
	width := m.viewport.Width

	var b strings.Builder
	for i, entry := range state.History {
		if i > 0 {
			b.WriteString("\n\n")
		}
		text := entry.Text
		if entry.Kind == models.LogDungeon && entry.Dungeon != nil {
			d := entry.Dungeon
			text = fmt.Sprintf("【%s】(%s/%s级)\n%s", d.Title, d.Genre, d.Rating, text)
		}
		b.WriteString(styleFor(entry.Kind).Width(width).Render(text))
		if entry.ImageURL != "" {
			b.WriteString("\n" + styleImageMark.Render("〔一幅画面在识海中浮现〕"))
		}
	}
	return b.String()
}

func (m Model) characterPanel() string {
	state := m.ctrl.State()

	var b strings.Builder
	b.WriteString(stylePanelHeading.Render("角色") + "\n")
	b.WriteString(state.Name + "\n")
	b.WriteString(styleTitle.Render(state.Realm.Display()) + "\n\n")

	b.WriteString(stylePanelHeading.Render("灵气") + "\n")
	pct := 0.0
	if state.MaxQi > 0 {
		pct = float64(state.CurrentQi) / float64(state.MaxQi)
	}
	b.WriteString(m.qiBar.ViewAs(pct) + "\n")
	b.WriteString(fmt.Sprintf("%d / %d\n\n", state.CurrentQi, state.MaxQi))

	b.WriteString(stylePanelHeading.Render("属性") + "\n")
	b.WriteString(fmt.Sprintf("体魄: %d\n神魂: %d\n道心: %d\n\n", state.Stats.Body, state.Stats.Spirit, state.Stats.DaoHeart))

	b.WriteString(stylePanelHeading.Render("地点") + "\n")
	b.WriteString(state.Location.Display() + "\n\n")

	b.WriteString(stylePanelHeading.Render("行囊") + "\n")
	if len(state.Inventory) == 0 {
		b.WriteString("(空)")
	} else {
		for _, item := range state.Inventory {
			b.WriteString("- " + item + "\n")
		}
	}

	return stylePanel.Width(panelWidth).Height(m.viewport.Height).Render(b.String())
}

func (m Model) travelView() string {
	var b strings.Builder
	b.WriteString(stylePanelHeading.Render("前往何处？") + "\n\n")
	for i, loc := range models.Locations {
		b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, loc.Display()))
	}
	b.WriteString("\n" + styleHelp.Render("[esc] 返回"))
	return styleOverlay.Render(b.String())
}

func (m Model) dungeonView() string {
	p := m.ctrl.Pending()
	if p == nil {
		return ""
	}
	d := p.Data

	width := m.viewport.Width - 6
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("【%s】", d.Title)))
	b.WriteString(styleSystem.Render(fmt.Sprintf("  %s · 难度 %s", d.Genre, d.Difficulty)) + "\n\n")
	b.WriteString(styleNarrative.Width(width).Render(d.Scenario) + "\n\n")
	if p.ImageURL != "" {
		b.WriteString(styleImageMark.Render("〔一幅画面在识海中浮现〕") + "\n\n")
	}
	b.WriteString(styleDungeon.Width(width).Render(d.Question) + "\n\n")
	for i, opt := range d.Options {
		b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, opt))
	}
	b.WriteString("\n" + styleHelp.Render("按 1-4 做出抉择。系统不接受沉默。"))
	return styleOverlay.Render(b.String())
}

// tribulationView draws the platform field as a one-line strip scaled
// from the 100-unit world, with the player marker above it.
func (m Model) tribulationView() string {
	g := m.game
	if g == nil {
		return ""
	}

	const fieldWidth = 50
	scale := func(x float64) int {
		i := int(x / 100 * fieldWidth)
		if i < 0 {
			i = 0
		}
		if i >= fieldWidth {
			i = fieldWidth - 1
		}
		return i
	}

	ground := []rune(strings.Repeat(" ", fieldWidth))
	for _, p := range []minigame.Platform{g.Current(), g.Target()} {
		for i := scale(p.Left); i <= scale(p.Left+p.Width) && i < fieldWidth; i++ {
			ground[i] = '█'
		}
	}

	air := []rune(strings.Repeat(" ", fieldWidth))
	air[scale(g.PlayerX())] = '仙'

	var b strings.Builder
	b.WriteString(styleTitle.Render("神魂渡劫"))
	b.WriteString(styleSystem.Render(fmt.Sprintf("  连击: %d", g.Score())) + "\n\n")
	b.WriteString(stylePlayer.Render(string(air)) + "\n")
	b.WriteString(stylePlatform.Render(string(ground)) + "\n\n")

	switch g.Phase() {
	case minigame.PhaseCharging:
		b.WriteString(m.powerBar.ViewAs(g.Power()/minigame.MaxPower) + "\n\n")
		b.WriteString(styleHelp.Render("[空格] 松手跳跃"))
	case minigame.PhaseJumping:
		b.WriteString(styleSystem.Render("神魂腾空…"))
	case minigame.PhaseFailed:
		b.WriteString(styleFailed.Render("坠入红尘") + "\n")
		b.WriteString(styleSystem.Render("本次渡劫中止，心境受到历练。") + "\n\n")
		b.WriteString(styleHelp.Render("[enter] 结束冥想 (领取灵气)"))
	default:
		b.WriteString(styleHelp.Render("[空格] 蓄力  [enter] 见好就收  [esc] 放弃 (无所得)"))
	}

	return styleOverlay.Render(b.String())
}
