package adherence

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/models"
	"github.com/julianstephens/dosely/internal/service"
)

type StatsCmd struct {
	Window int `short:"w" help:"Trailing window in days; defaults to the configured window."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	overall, perPrescription, err := svc.Stats(ctx.Context(), c.Window)
	if err != nil {
		return err
	}

	names, err := medicationNames(ctx, svc)
	if err != nil {
		return err
	}

	fmt.Printf("Adherence over the last %d days\n", overall.WindowDays)
	printStats("Overall", overall)
	if len(perPrescription) == 0 {
		return nil
	}

	fmt.Println()
	for _, ps := range perPrescription {
		name, ok := names[ps.PrescriptionID]
		if !ok {
			name = cli.ShortID(ps.PrescriptionID) + " (deleted)"
		}
		printStats(name, ps.Stats)
	}
	return nil
}

func printStats(label string, s models.AdherenceStats) {
	bar := strings.Repeat("█", s.AdherenceRate/10) + strings.Repeat("░", 10-s.AdherenceRate/10)
	fmt.Printf("  %-24s %s %3d%%  took %d, missed %d, snoozed %d\n",
		label, bar, s.AdherenceRate, s.Took, s.Missed, s.Snoozed)
}

// medicationNames maps prescription IDs to medication names.
func medicationNames(ctx *cli.Context, svc *service.Service) (map[string]string, error) {
	ps, err := svc.ListPrescriptions(ctx.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ps))
	for _, p := range ps {
		names[p.ID] = p.MedicationName
	}
	return names, nil
}
