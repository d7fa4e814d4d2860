package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/logger"
	"github.com/julianstephens/dosely/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	// Repair reminders that an interrupted reschedule may have left behind.
	if summary, err := svc.SyncReminders(ctx.Context()); err != nil {
		logger.Warn("Reminder sync failed", "error", err)
	} else if err := summary.Err(); err != nil {
		logger.Warn("Reminder sync incomplete", "error", err)
	}

	p := tea.NewProgram(tui.NewModel(ctx.Context(), svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI exited with an error: %w", err)
	}
	return nil
}
