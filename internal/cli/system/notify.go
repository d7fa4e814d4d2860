package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/dosely/internal/alerts"
	"github.com/julianstephens/dosely/internal/cli"
	"github.com/julianstephens/dosely/internal/notifier"
	"github.com/julianstephens/dosely/internal/utils"
)

// NotifyCmd delivers the reminders due this minute. It is meant to run from
// cron or a systemd timer every minute.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

// senderFactory is swapped in tests.
var senderFactory = func() alerts.Sender { return notifier.New() }

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	if !settings.NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	now := ctx.Clock()().In(loc)
	grace := time.Duration(settings.NotificationGracePeriodMin) * time.Minute

	dispatcher := alerts.NewDispatcher(ctx.Store, senderFactory(), grace)

	if c.DryRun {
		scheduled, err := ctx.Store.GetAllScheduledAlerts(ctx.Context())
		if err != nil {
			return fmt.Errorf("failed to list scheduled alerts: %w", err)
		}
		due := dispatcher.Due(scheduled, now)
		if len(due) == 0 {
			fmt.Println("No reminders due.")
		}
		for _, a := range due {
			fmt.Println("[DryRun] " + alerts.Message(a))
		}
		return nil
	}

	result, err := dispatcher.Fire(ctx.Context(), now)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		fmt.Printf("Failed to deliver %d reminder(s); they will be retried within %d min\n", result.Failed, settings.NotificationGracePeriodMin)
	}
	return nil
}
