package cmd

import (
	"github.com/spf13/cobra"
)

var inviteCommand = cobra.Command{
	Use:   "invite",
	Short: "invite commands",
	Long:  `this section harbors the invitation commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
