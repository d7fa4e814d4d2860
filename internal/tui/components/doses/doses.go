package doses

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/scheduler"
)

// LogDoseMsg asks the parent model to record action for the selected dose.
type LogDoseMsg struct {
	Dose   scheduler.Dose
	Action models.Action
}

type Item struct {
	Dose scheduler.Dose
}

func (i Item) Title() string {
	p := i.Dose.Prescription
	title := fmt.Sprintf("%s  %s %s", i.Dose.Time, p.MedicationName, p.Dosage)
	switch i.Dose.LastAction() {
	case models.ActionTook:
		return "✓ " + title
	case models.ActionMissed:
		return "✗ " + title
	case models.ActionSnoozed:
		return "z " + title
	}
	return title
}

func (i Item) Description() string {
	parts := []string{string(i.Dose.Slot)}
	if i.Dose.Prescription.WithFood {
		parts = append(parts, "with food")
	}
	if last := i.Dose.LastAction(); last != "" {
		parts = append(parts, fmt.Sprintf("%s (%d logged today)", last, len(i.Dose.Logged)))
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Dose.Prescription.MedicationName }

type KeyMap struct {
	Took    key.Binding
	Missed  key.Binding
	Snoozed key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Took: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "took"),
		),
		Missed: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "missed"),
		),
		Snoozed: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snoozed"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(doses []scheduler.Dose, width, height int) Model {
	l := list.New(items(doses), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model
	l.SetStatusBarItemName("dose", "doses")

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Took, keys.Missed, keys.Snoozed}
	}

	return Model{list: l, keys: keys}
}

func items(doses []scheduler.Dose) []list.Item {
	out := make([]list.Item, len(doses))
	for i, d := range doses {
		out[i] = Item{Dose: d}
	}
	return out
}

func (m *Model) SetDoses(doses []scheduler.Dose) {
	m.list.SetItems(items(doses))
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the dose under the cursor.
func (m Model) Selected() (scheduler.Dose, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Dose, ok
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		var action models.Action
		switch {
		case key.Matches(msg, m.keys.Took):
			action = models.ActionTook
		case key.Matches(msg, m.keys.Missed):
			action = models.ActionMissed
		case key.Matches(msg, m.keys.Snoozed):
			action = models.ActionSnoozed
		}
		if action != "" {
			if dose, ok := m.Selected(); ok {
				return m, func() tea.Msg { return LogDoseMsg{Dose: dose, Action: action} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "Nothing scheduled for today."
	}
	return m.list.View()
}
