package prescriptions

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dosely/internal/cli"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	ps, err := svc.ListPrescriptions(ctx.Context())
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		fmt.Println("No prescriptions. Add one with 'dosely rx add'.")
		return nil
	}

	fmt.Printf("%-8s %-24s %-10s %-8s %-30s %-6s\n", "ID", "Medication", "Dosage", "Freq", "Schedule", "Stock")
	fmt.Println(strings.Repeat("-", 92))

	today := svc.Now()
	for _, p := range ps {
		name := p.MedicationName
		if len(name) > 22 {
			name = name[:19] + "..."
		}
		if p.IsExpired(today) {
			name += " (exp)"
		}
		schedule := cli.FormatSchedule(p.Schedule)
		if len(schedule) > 28 {
			schedule = schedule[:25] + "..."
		}
		fmt.Printf("%-8s %-24s %-10s %-8s %-30s %-6d\n",
			cli.ShortID(p.ID), name, p.Dosage, p.Frequency, schedule, p.CurrentStock)
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Prescription ID or unique prefix."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
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

	fmt.Printf("%s %s\n", p.MedicationName, p.Dosage)
	fmt.Printf("  ID:           %s\n", p.ID)
	fmt.Printf("  Patient:      %s\n", p.PatientID)
	fmt.Printf("  Frequency:    %s\n", p.Frequency)
	fmt.Printf("  Schedule:     %s\n", cli.FormatSchedule(p.Schedule))
	fmt.Printf("  With food:    %v\n", p.WithFood)
	fmt.Printf("  Stock:        %d of %d per refill\n", p.CurrentStock, p.TotalPerRefill)
	fmt.Printf("  Start date:   %s\n", p.StartDate)
	if p.EndDate != "" {
		expired := ""
		if p.IsExpired(svc.Now()) {
			expired = " (expired)"
		}
		fmt.Printf("  End date:     %s%s\n", p.EndDate, expired)
	}
	if p.Description != "" {
		fmt.Printf("  Description:  %s\n", p.Description)
	}
	if p.Instructions != "" {
		fmt.Printf("  Instructions: %s\n", p.Instructions)
	}
	return nil
}
