package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/spf13/cobra"
)

var listInvitesFamily string

var listInvitesCommand = cobra.Command{
	Use:   "ls",
	Short: "Lists all invites of a family",
	Long:  `This will list all invites of the given family`,
	Run: func(cmd *cobra.Command, args []string) {
		//setup datastore
		dataStore := mustResolveUsableDataStore()
		familyID, err := uuid.Parse(listInvitesFamily)
		if err != nil {
			fmt.Printf("Invalid family id: %s", err)
			os.Exit(1)
			return
		}
		family, err := dataStore.FamilyByPublicID(context.Background(), familyID)
		if err != nil {
			fmt.Printf("Unable to load family: %s", err)
			os.Exit(1)
			return
		}
		entries, total, err := dataStore.Invitations(context.Background(), family.ID, nil, db.ListOptions{
			Page:     1,
			PageSize: math.MaxInt,
		})
		if err != nil {
			fmt.Printf("Unable to load invites: %s", err)
			os.Exit(1)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 1, 1, 1, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s \r\n", "ID", "Email", "Role", "Status", "ExpiresAt", "AcceptedAt", "CreatedAt")
		formatDt := func(t *time.Time) string {
			if t != nil {
				return t.Format("2006-01-02")
			}
			return "-"
		}
		for _, v := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s \r\n", v.PublicID, v.Email, v.Role, v.Status, formatDt(&v.ExpiresAt), formatDt(v.AcceptedAt), formatDt(&v.CreatedAt))
		}
		fmt.Fprintf(w, "------------------------------------------------- \r\n")
		fmt.Fprintf(w, "%d entries loaded", total)
		w.Flush()
	},
}

func init() {
	listInvitesCommand.Flags().
		StringVar(&listInvitesFamily, "family", "", "public id of the family to list invites for")
	_ = listInvitesCommand.MarkFlagRequired("family")
}
