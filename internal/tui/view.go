package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = bodyStyle.Render(m.doseList.View())
	case StateStats:
		content = bodyStyle.Render(m.statsModel.View())
	case StateConfirmFood:
		content = lipgloss.Place(m.width, m.height-4,
			lipgloss.Center, lipgloss.Center,
			m.form.View(),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Stats"} {
		active := m.state == SessionState(i)
		if m.state == StateConfirmFood {
			active = m.previousState == SessionState(i)
		}
		if active {
			tabs = append(tabs, tabActiveStyle.Render(title))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.errMsg != "" {
		return errorLineStyle.Render("✗ " + m.errMsg)
	}
	if m.status != "" {
		return statusLineStyle.Render(m.status)
	}
	return ""
}
