package reminders

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/dosely/internal/alerts"
	"github.com/julianstephens/dosely/internal/cli"
)

// SyncCmd re-registers the reminders of every prescription, repairing any
// left behind by a failed reschedule.
type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	summary, err := svc.SyncReminders(ctx.Context())
	if err != nil {
		return err
	}
	if n := summary.Orphans.Cancelled; n > 0 {
		fmt.Printf("Removed %d reminder(s) of deleted prescriptions\n", n)
	}
	if !summary.Orphans.OK() {
		cli.PrintReminderReport(summary.Orphans)
		return errors.New("reminder sync incomplete")
	}
	for _, r := range summary.Results {
		if !r.Report.OK() {
			cli.PrintReminderReport(r.Report)
			return errors.New("reminder sync incomplete")
		}
	}
	if len(summary.Results) == 0 {
		fmt.Println("No prescriptions to schedule.")
		return nil
	}
	fmt.Printf("Registered %d reminder(s) for %d prescription(s)\n", summary.Registered(), len(summary.Results))
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	scheduled, err := ctx.AlertService().ListAlerts(ctx.Context())
	if errors.Is(err, alerts.ErrNotificationsDisabled) {
		fmt.Println("Notifications are disabled. Enable them with 'dosely settings --notifications-enabled'.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	if len(scheduled) == 0 {
		fmt.Println("No reminders scheduled.")
		return nil
	}

	sort.SliceStable(scheduled, func(i, j int) bool {
		if scheduled[i].Tag.MedicationName != scheduled[j].Tag.MedicationName {
			return scheduled[i].Tag.MedicationName < scheduled[j].Tag.MedicationName
		}
		ti, tj := scheduled[i].Trigger, scheduled[j].Trigger
		return ti.Hour*60+ti.Minute < tj.Hour*60+tj.Minute
	})

	fmt.Printf("%-8s %-24s %-14s %-16s\n", "ID", "Medication", "Trigger", "Last fired")
	fmt.Println(strings.Repeat("-", 66))
	for _, a := range scheduled {
		lastFired := "never"
		if a.LastFired != nil {
			lastFired = a.LastFired.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("%-8s %-24s %-14s %-16s\n", cli.ShortID(a.ID), a.Tag.MedicationName, a.Trigger.String(), lastFired)
	}
	return nil
}
