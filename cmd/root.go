package cmd

import (
	"fmt"
	"os"

	"github.com/kinfolkhq/kinfolk/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ConfigFileLocation is of the config to load
var ConfigFileLocation string

// TopLevelLogger is the logger all loggers come from
var TopLevelLogger *zap.Logger

// LoadedConfig is the currently loaded configuration after initial bootstrapping
var LoadedConfig *config.Configuration

// FileSystemsConfig consists of the filesystems to use (either local or embed)
var FileSystemsConfig *config.FileSystems

var rootCommand = cobra.Command{
	Use:   "kinfolk",
	Short: "kinfolk a family collaboration backend",
	Long: `kinfolk is an invitation-only family and team collaboration service,
	For more information visit https://github.com/kinfolkhq/kinfolk`,
	Run: func(cmd *cobra.Command, args []string) {
		serveCommand.Run(cmd, args)
	},
}

func Execute() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {

	rootCommand.PersistentFlags().
		StringVar(&ConfigFileLocation, "config", "", "config file to be used")

	verifyCommand.AddCommand(&sendTestMailCommand)

	inviteCommand.AddCommand(&seedInviteCommand)
	inviteCommand.AddCommand(&listInvitesCommand)
	inviteCommand.AddCommand(&sweepInvitesCommand)

	userCommand.AddCommand(&userCreateCommand)

	familyCommand.AddCommand(&familyCreateCommand)

	rootCommand.AddCommand(&verifyCommand)
	rootCommand.AddCommand(&inviteCommand)
	rootCommand.AddCommand(&userCommand)
	rootCommand.AddCommand(&familyCommand)
	rootCommand.AddCommand(&serveCommand)
}
