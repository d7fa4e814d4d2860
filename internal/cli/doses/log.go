package doses

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dosely/internal/adherence"
	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
)

// LogCmd records a dose event for a prescription.
type LogCmd struct {
	ID       string `arg:"" help:"Prescription ID or unique prefix."`
	Action   string `arg:"" enum:"took,missed,snoozed" help:"What happened to the dose (took|missed|snoozed)."`
	WithFood *bool  `help:"Confirm whether the dose was taken with food (took only)."`
	Note     string `short:"n" help:"Optional note."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	id, err := cli.ResolvePrescriptionID(ctx, svc, c.ID)
	if err != nil {
		return err
	}

	entry, err := svc.LogDose(ctx.Context(), adherence.AppendRequest{
		PrescriptionID:    id,
		Action:            models.Action(strings.ToLower(c.Action)),
		WithFoodConfirmed: c.WithFood,
		Note:              c.Note,
	})
	if err != nil {
		return err
	}

	p, err := svc.GetPrescription(ctx.Context(), id)
	if err != nil {
		return err
	}
	fmt.Printf("Logged %s for %s at %s\n", entry.Action, p.MedicationName, entry.Timestamp.In(svc.Now().Location()).Format("15:04"))
	if entry.Action == models.ActionTook && p.WithFood && c.WithFood == nil {
		fmt.Println("  Reminder: take this medication with food.")
	}
	if p.IsLowStock(svc.Settings().LowStockThreshold) {
		fmt.Printf("⚠ Only %d left. Refill soon.\n", p.CurrentStock)
	}
	return nil
}
