package adherence

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/constants"
)

type HistoryCmd struct {
	Days int `short:"d" help:"How many days back to show; 0 shows everything." default:"30"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	entries, err := svc.History(ctx.Context(), c.Days)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No doses logged.")
		return nil
	}

	names, err := medicationNames(ctx, svc)
	if err != nil {
		return err
	}

	loc := svc.Now().Location()
	fmt.Printf("%-17s %-24s %-8s %-6s %s\n", "When", "Medication", "Action", "Food", "Note")
	fmt.Println(strings.Repeat("-", 80))
	for _, e := range entries {
		name, ok := names[e.PrescriptionID]
		if !ok {
			name = cli.ShortID(e.PrescriptionID)
		}
		food := ""
		if e.WithFoodConfirmed != nil {
			food = "no"
			if *e.WithFoodConfirmed {
				food = "yes"
			}
		}
		fmt.Printf("%-17s %-24s %-8s %-6s %s\n",
			e.Timestamp.In(loc).Format(constants.DateFormat+" 15:04"), name, e.Action, food, e.Note)
	}
	return nil
}
