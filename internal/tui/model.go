package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dosely/internal/adherence"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/scheduler"
	"github.com/julianstephens/dosely/internal/tui/components/doses"
	"github.com/julianstephens/dosely/internal/tui/components/stats"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateStats
	StateConfirmFood
)

// tabCount is the number of tab-navigable states.
const tabCount = 2

// Workflow is the part of service.Service the TUI drives.
type Workflow interface {
	ListPrescriptions(ctx context.Context) ([]models.Prescription, error)
	TodayDoses(ctx context.Context) ([]scheduler.Dose, error)
	LogDose(ctx context.Context, req adherence.AppendRequest) (models.AdherenceLogEntry, error)
	Stats(ctx context.Context, windowDays int) (models.AdherenceStats, []adherence.PrescriptionStats, error)
	LowStock(ctx context.Context) ([]models.Prescription, error)
}

type FoodFormModel struct {
	WithFood bool
}

type Model struct {
	ctx           context.Context
	svc           Workflow
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	doseList      doses.Model
	statsModel    stats.Model
	form          *huh.Form
	foodForm      *FoodFormModel
	pendingDose   *scheduler.Dose
	quitting      bool
	width         int
	height        int
	status        string // result of the last action
	errMsg        string
}

func NewModel(ctx context.Context, svc Workflow) Model {
	m := Model{
		ctx:        ctx,
		svc:        svc,
		state:      StateToday,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		doseList:   doses.New(nil, 0, 0),
		statsModel: stats.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateToday {
		keys = append(keys, m.keys.Took, m.keys.Missed, m.keys.Snoozed)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateToday {
		actions = []key.Binding{m.keys.Took, m.keys.Missed, m.keys.Snoozed}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads today's doses and the stats tab.
func (m *Model) refresh() {
	m.errMsg = ""

	todays, err := m.svc.TodayDoses(m.ctx)
	if err != nil {
		m.errMsg = err.Error()
		todays = nil
	}
	m.doseList.SetDoses(todays)

	overall, perRx, err := m.svc.Stats(m.ctx, 0)
	m.statsModel.Err = err
	m.statsModel.Overall = overall
	m.statsModel.PerRx = perRx

	if ps, err := m.svc.ListPrescriptions(m.ctx); err == nil {
		names := make(map[string]string, len(ps))
		for _, p := range ps {
			names[p.ID] = p.MedicationName
		}
		m.statsModel.Names = names
	}
	if low, err := m.svc.LowStock(m.ctx); err == nil {
		m.statsModel.LowStock = low
	}
}
