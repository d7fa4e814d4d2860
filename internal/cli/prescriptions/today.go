package prescriptions

import (
	"fmt"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/scheduler"
)

// TodayCmd lists today's doses grouped by part of the day.
type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	doses, err := svc.TodayDoses(ctx.Context())
	if err != nil {
		return err
	}

	now := svc.Now()
	fmt.Printf("Doses for %s\n", now.Format("Mon Jan 2"))
	if len(doses) == 0 {
		fmt.Println("  Nothing scheduled today.")
		return nil
	}

	var slot scheduler.Slot
	for _, d := range doses {
		if d.Slot != slot {
			slot = d.Slot
			fmt.Printf("\n%s\n", slot)
		}
		status := "pending"
		if a := d.LastAction(); a != "" {
			status = string(a)
		}
		food := ""
		if d.Prescription.WithFood {
			food = " [with food]"
		}
		fmt.Printf("  %s  %-8s %s %s%s (%s)\n",
			d.Time, status, d.Prescription.MedicationName, d.Prescription.Dosage, food, cli.ShortID(d.Prescription.ID))
	}
	return nil
}
