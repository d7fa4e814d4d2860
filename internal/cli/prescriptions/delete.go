package prescriptions

import (
	"fmt"

	"github.com/julianstephens/dosely/internal/cli"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Prescription ID or unique prefix."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	id, err := cli.ResolvePrescriptionID(ctx, svc, c.ID)
	if err != nil {
		return err
	}
	p, err := svc.GetPrescription(ctx.Context(), id)
	if err != nil {
		return err
	}

	report, err := svc.DeletePrescription(ctx.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted prescription: %s (ID: %s)\n", p.MedicationName, p.ID)
	cli.PrintReminderReport(report)
	return nil
}
