package prescriptions

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/validation"
)

type AddCmd struct {
	Name         string   `arg:"" help:"Medication name."`
	Dosage       string   `short:"d" help:"Dosage, e.g. 500mg." required:""`
	Frequency    string   `short:"f" help:"Daily frequency (Once|Twice|Thrice)." required:""`
	Times        []string `short:"t" help:"Comma-separated dose times (HH:MM), one per daily dose." required:""`
	Days         []string `help:"Comma-separated weekdays (Mon..Sun); omit for every day."`
	Stock        int      `help:"Doses currently on hand."`
	Refill       int      `help:"Doses per refill."`
	WithFood     bool     `help:"Must be taken with food."`
	Start        string   `help:"Start date (YYYY-MM-DD); defaults to today."`
	End          string   `help:"End date (YYYY-MM-DD)."`
	Description  string   `help:"What the medication is for."`
	Instructions string   `help:"Free-form intake instructions."`
	Override     bool     `help:"Accept any number of times regardless of frequency."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	freq, err := validation.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	p := models.Prescription{
		MedicationName: strings.TrimSpace(c.Name),
		Dosage:         strings.TrimSpace(c.Dosage),
		Description:    c.Description,
		Instructions:   c.Instructions,
		Frequency:      freq,
		Schedule:       models.Schedule{Times: c.Times, Days: c.Days},
		CurrentStock:   c.Stock,
		TotalPerRefill: c.Refill,
		WithFood:       c.WithFood,
		StartDate:      c.Start,
		EndDate:        c.End,
	}

	stored, report, err := svc.AddPrescription(ctx.Context(), p, c.Override)
	if err != nil {
		return err
	}

	fmt.Printf("Added prescription: %s %s (ID: %s)\n", stored.MedicationName, stored.Dosage, stored.ID)
	fmt.Printf("  Schedule: %s\n", cli.FormatSchedule(stored.Schedule))
	cli.PrintReminderReport(report)
	return nil
}
