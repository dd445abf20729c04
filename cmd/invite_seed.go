package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/manage"
	"github.com/spf13/cobra"
)

var seedInviteFamily string
var seedInviteEmail string
var seedInviteRole string
var seedInviteBy string

var seedInviteCommand = cobra.Command{
	Use:   "seed",
	Short: "generates an invitation for an email address",
	Long:  `this can and may be used to seed an initial invitation for a family member`,
	Run: func(cmd *cobra.Command, args []string) {
		//setup datastore
		dataStore := mustResolveUsableDataStore()
		//events dispatcher
		dispatcher := bootstrapDispatcher(dataStore.Auditor())

		inviteService := invites.New(
			dataStore,
			TopLevelLogger.Named("invite_service"),
			LoadedConfig.Behaviour,
			dispatcher,
		)
		inviteManager := manage.NewInviteService(
			dataStore,
			TopLevelLogger.Named("invite_manager"),
			inviteService,
		)

		familyID, err := uuid.Parse(seedInviteFamily)
		if err != nil {
			fmt.Printf("Invalid family id: %s", err)
			os.Exit(1)
			return
		}
		found, seededBy, err := dataStore.IDFromEmail(context.Background(), seedInviteBy)
		if err != nil || !found {
			fmt.Printf("Unable to resolve inviter %s", seedInviteBy)
			os.Exit(1)
			return
		}
		role := seedInviteRole
		if role == "" {
			role = LoadedConfig.Behaviour.DefaultRole
		}
		invite, err := inviteManager.Seed(
			context.Background(),
			familyID,
			seededBy,
			seedInviteEmail,
			role,
			nil,
		)
		if err != nil {
			fmt.Printf("Could not generate invite: %s", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Your new invite token is %s", invite.Token)
	},
}

func init() {
	seedInviteCommand.Flags().
		StringVar(&seedInviteFamily, "family", "", "public id of the family to invite into")
	seedInviteCommand.Flags().
		StringVar(&seedInviteEmail, "email", "", "email address to invite")
	seedInviteCommand.Flags().
		StringVar(&seedInviteRole, "role", "", "role granted on acceptance (defaults to behaviour.default-role)")
	seedInviteCommand.Flags().
		StringVar(&seedInviteBy, "by", "", "email address of the inviting member")
	_ = seedInviteCommand.MarkFlagRequired("family")
	_ = seedInviteCommand.MarkFlagRequired("email")
	_ = seedInviteCommand.MarkFlagRequired("by")
}
