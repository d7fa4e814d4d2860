package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dosely/internal/adherence"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/scheduler"
	"github.com/julianstephens/dosely/internal/tui/components/doses"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		// tabs, status line and help take four rows
		m.doseList.SetSize(size.Width-4, size.Height-6)
		m.statsModel.SetSize(size.Width-4, size.Height-6)
	}

	if m.state == StateConfirmFood {
		return m.updateFoodForm(msg)
	}

	switch msg := msg.(type) {
	case doses.LogDoseMsg:
		return m.startLog(msg.Dose, msg.Action)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.status = "Refreshed"
			return m, nil
		}
	}

	if m.state == StateToday {
		var cmd tea.Cmd
		m.doseList, cmd = m.doseList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startLog records action for dose, first asking about food when a took
// dose belongs to a with-food prescription.
func (m Model) startLog(dose scheduler.Dose, action models.Action) (tea.Model, tea.Cmd) {
	if action != models.ActionTook || !dose.Prescription.WithFood {
		m.logDose(dose, action, nil)
		return m, nil
	}

	m.pendingDose = &dose
	m.foodForm = &FoodFormModel{WithFood: true}
	m.form = newFoodForm(dose.Prescription, m.foodForm)
	m.previousState = m.state
	m.state = StateConfirmFood
	return m, m.form.Init()
}

func newFoodForm(p models.Prescription, fm *FoodFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Did you take %s with food?", p.MedicationName)).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.WithFood),
		),
	).WithTheme(huh.ThemeDracula())
}

func (m Model) updateFoodForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.finishFoodForm(false)
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.finishFoodForm(true)
	case huh.StateAborted:
		m.finishFoodForm(false)
	}
	return m, cmd
}

// finishFoodForm logs the pending dose when the form was submitted and
// returns to the previous tab either way.
func (m *Model) finishFoodForm(submitted bool) {
	if submitted && m.pendingDose != nil {
		withFood := m.foodForm.WithFood
		m.logDose(*m.pendingDose, models.ActionTook, &withFood)
	} else {
		m.status = "Cancelled"
	}
	m.pendingDose = nil
	m.foodForm = nil
	m.form = nil
	m.state = m.previousState
}

func (m *Model) logDose(dose scheduler.Dose, action models.Action, withFood *bool) {
	_, err := m.svc.LogDose(m.ctx, adherence.AppendRequest{
		PrescriptionID:    dose.Prescription.ID,
		PatientID:         dose.Prescription.PatientID,
		Action:            action,
		WithFoodConfirmed: withFood,
	})
	if err != nil {
		m.status = ""
		m.errMsg = err.Error()
		return
	}
	m.refresh()
	m.status = fmt.Sprintf("Logged %s for %s (%s)", action, dose.Prescription.MedicationName, dose.Time)
}
