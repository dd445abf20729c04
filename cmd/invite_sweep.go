package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/jobs"
	"github.com/spf13/cobra"
)

var sweepInvitesCommand = cobra.Command{
	Use:   "sweep",
	Short: "runs the invitation maintenance sweeps once",
	Long: `expires overdue invitations, enqueues due reminder emails,
	drains the email outbox and archives invitations past the retention window`,
	Run: func(cmd *cobra.Command, args []string) {
		//setup datastore
		dataStore := mustResolveUsableDataStore()
		//load translations
		registry := mustResolveTranslationRegistry()
		//setup mailer
		mailer := mustResolveMailer(registry)
		//events dispatcher
		dispatcher := bootstrapDispatcher(dataStore.Auditor())

		inviteService := invites.New(
			dataStore,
			TopLevelLogger.Named("invite_service"),
			LoadedConfig.Behaviour,
			dispatcher,
		)
		drain := jobs.NewOutboxDrain(
			dataStore,
			mailer,
			TopLevelLogger.Named("outbox_drain"),
			dispatcher,
			LoadedConfig.Behaviour.DefaultLocale,
		)

		ctx := context.Background()
		now := time.Now().UTC()

		expired, err := inviteService.ExpireOverdue(ctx, now)
		if err != nil {
			fmt.Printf("Expire sweep failed: %s", err)
			os.Exit(1)
			return
		}
		reminders, err := inviteService.EnqueueDueReminders(ctx, now)
		if err != nil {
			fmt.Printf("Reminder sweep failed: %s", err)
			os.Exit(1)
			return
		}
		sent, err := drain.Drain(ctx)
		if err != nil {
			fmt.Printf("Outbox drain failed: %s", err)
			os.Exit(1)
			return
		}
		archived, err := inviteService.ArchiveBefore(ctx, now.Add(-LoadedConfig.Behaviour.InviteRetention))
		if err != nil {
			fmt.Printf("Retention sweep failed: %s", err)
			os.Exit(1)
			return
		}
		fmt.Printf(
			"Swept: %d expired, %d reminders enqueued, %d mails processed, %d archived",
			expired,
			reminders,
			sent,
			archived,
		)
	},
}
