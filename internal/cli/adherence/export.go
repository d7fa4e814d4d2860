package adherence

import (
	"fmt"
	"os"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/export"
)

// ExportCmd writes an Excel workbook with the adherence summary and history.
type ExportCmd struct {
	Path   string `arg:"" help:"Output .xlsx path." type:"path"`
	Window int    `short:"w" help:"Trailing window in days; defaults to the configured window."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	window := svc.StatsWindow(c.Window)
	_, stats, err := svc.Stats(ctx.Context(), window)
	if err != nil {
		return err
	}
	entries, err := svc.History(ctx.Context(), window)
	if err != nil {
		return err
	}
	prescriptions, err := svc.ListPrescriptions(ctx.Context())
	if err != nil {
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Path, err)
	}
	if err := export.WriteAdherenceWorkbook(f, prescriptions, entries, stats); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Path, err)
	}

	fmt.Printf("Exported %d prescriptions and %d log entries to %s\n", len(prescriptions), len(entries), c.Path)
	return nil
}
