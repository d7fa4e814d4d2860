package prescriptions

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/validation"
)

// EditCmd changes the descriptive fields of a prescription. Use ScheduleCmd
// for frequency and dose times.
type EditCmd struct {
	ID           string  `arg:"" help:"Prescription ID or unique prefix."`
	Name         *string `help:"New medication name."`
	Dosage       *string `help:"New dosage."`
	Description  *string `help:"New description."`
	Instructions *string `help:"New intake instructions."`
	WithFood     *bool   `help:"Whether it must be taken with food."`
	Refill       *int    `help:"Doses per refill."`
	Start        *string `help:"Start date (YYYY-MM-DD)."`
	End          *string `help:"End date (YYYY-MM-DD); empty clears it."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
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

	updated := false
	if c.Name != nil {
		p.MedicationName = strings.TrimSpace(*c.Name)
		updated = true
	}
	if c.Dosage != nil {
		p.Dosage = strings.TrimSpace(*c.Dosage)
		updated = true
	}
	if c.Description != nil {
		p.Description = *c.Description
		updated = true
	}
	if c.Instructions != nil {
		p.Instructions = *c.Instructions
		updated = true
	}
	if c.WithFood != nil {
		p.WithFood = *c.WithFood
		updated = true
	}
	if c.Refill != nil {
		p.TotalPerRefill = *c.Refill
		updated = true
	}
	if c.Start != nil {
		p.StartDate = *c.Start
		updated = true
	}
	if c.End != nil {
		p.EndDate = *c.End
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}

	// Stored schedules were validated on write; an overridden one stays valid.
	override := len(p.Schedule.Times) != p.Frequency.ExpectedTimes()
	stored, report, err := svc.UpdatePrescription(ctx.Context(), p, override)
	if err != nil {
		return err
	}

	fmt.Printf("Updated prescription: %s (ID: %s)\n", stored.MedicationName, stored.ID)
	cli.PrintReminderReport(report)
	return nil
}

// ScheduleCmd replaces the dosing schedule and re-registers its reminders.
type ScheduleCmd struct {
	ID        string   `arg:"" help:"Prescription ID or unique prefix."`
	Frequency string   `short:"f" help:"New daily frequency (Once|Twice|Thrice); keeps the current one when omitted."`
	Times     []string `short:"t" help:"Comma-separated dose times (HH:MM)." required:""`
	Days      []string `help:"Comma-separated weekdays (Mon..Sun); omit for every day."`
	Override  bool     `help:"Accept any number of times regardless of frequency."`
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	var freq models.Frequency
	if c.Frequency != "" {
		f, err := validation.ParseFrequency(c.Frequency)
		if err != nil {
			return err
		}
		freq = f
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	id, err := cli.ResolvePrescriptionID(ctx, svc, c.ID)
	if err != nil {
		return err
	}

	stored, report, err := svc.EditSchedule(ctx.Context(), id, validation.ScheduleInput{
		Frequency:     freq,
		Times:         c.Times,
		Days:          c.Days,
		OverrideCount: c.Override,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Updated schedule for %s: %s %s\n", stored.MedicationName, stored.Frequency, cli.FormatSchedule(stored.Schedule))
	cli.PrintReminderReport(report)
	return nil
}
