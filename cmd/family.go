package cmd

import (
	"github.com/spf13/cobra"
)

var familyCommand = cobra.Command{
	Use:   "family",
	Short: "family commands",
	Long:  `this section harbors the family commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
