package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kinfolkhq/kinfolk/manage"
	"github.com/spf13/cobra"
)

var familyCreateName string
var familyCreateBy string
var familyCreateRole string

var familyCreateCommand = cobra.Command{
	Use:   "create",
	Short: "creates a new family",
	Long:  `this command may be used to open a new family and grant the creator their role`,
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		familyManager := manage.NewFamilyService(
			dataStore,
			TopLevelLogger.Named("family_manager"),
			dispatcher,
		)
		found, createdBy, err := dataStore.IDFromEmail(context.Background(), familyCreateBy)
		if err != nil || !found {
			fmt.Printf("Unable to resolve creator %s", familyCreateBy)
			os.Exit(1)
			return
		}
		role := familyCreateRole
		if role == "" {
			role = LoadedConfig.Behaviour.DefaultRole
		}
		id, err := familyManager.CreateFamily(context.Background(), familyCreateName, createdBy, role)
		if err != nil {
			fmt.Printf("Could not create family: %s", err)
			os.Exit(1)
			return
		}
		fmt.Printf("Created family %s with id: %v", familyCreateName, id)
	},
}

func init() {
	familyCreateCommand.Flags().
		StringVar(&familyCreateName, "name", "", "name of the new family")
	familyCreateCommand.Flags().
		StringVar(&familyCreateBy, "by", "", "email address of the creating user")
	familyCreateCommand.Flags().
		StringVar(&familyCreateRole, "role", "", "role granted to the creator (defaults to behaviour.default-role)")
	_ = familyCreateCommand.MarkFlagRequired("name")
	_ = familyCreateCommand.MarkFlagRequired("by")
}
