package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dosely/internal/adherence"
	"github.com/julianstephens/dosely/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	rateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	lowStockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

type Model struct {
	Overall       models.AdherenceStats
	PerRx         []adherence.PrescriptionStats
	Names         map[string]string
	LowStock      []models.Prescription
	Err           error
	width, height int
}

func New(width, height int) Model {
	return Model{Names: make(map[string]string), width: width, height: height}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View() string {
	if m.Err != nil {
		return mutedStyle.Render("Stats unavailable: " + m.Err.Error())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Last %d days", m.Overall.WindowDays)))
	b.WriteString("\n")
	b.WriteString(rateStyle.Render(fmt.Sprintf("%d%% adherence", m.Overall.AdherenceRate)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("took %d  missed %d  snoozed %d  (total %d)\n",
		m.Overall.Took, m.Overall.Missed, m.Overall.Snoozed, m.Overall.Total))

	if len(m.PerRx) > 0 {
		b.WriteString("\n")
		for _, ps := range m.PerRx {
			name := m.Names[ps.PrescriptionID]
			if name == "" {
				name = ps.PrescriptionID
			}
			b.WriteString(fmt.Sprintf("%-24s %3d%%  %s\n", name, ps.Stats.AdherenceRate,
				mutedStyle.Render(fmt.Sprintf("took %d / missed %d", ps.Stats.Took, ps.Stats.Missed))))
		}
	}

	if len(m.LowStock) > 0 {
		b.WriteString("\n")
		for _, p := range m.LowStock {
			b.WriteString(lowStockStyle.Render(fmt.Sprintf("⚠ %s: %d left", p.MedicationName, p.CurrentStock)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
