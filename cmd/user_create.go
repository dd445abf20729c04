package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var createSuperuser bool

var userCreateCommand = cobra.Command{
	Use:   "create",
	Short: "launches a on terminal user creation dialog",
	Long: `this command may be used to create a user account from command line,
	accounts created here bypass the invitation flow and belong to no family`,
	Run: func(cmd *cobra.Command, args []string) {
		dataStore := mustResolveUsableDataStore()
		reader := bufio.NewReader(os.Stdin)

		trimmed := ""
		if trimmed == "" {
			fmt.Println("email?")
			email, err := reader.ReadString('\n')
			if err != nil {
				fmt.Printf("Unable to read email: %s", err)
				os.Exit(1)
				return
			}
			trimmed = strings.Trim(email, " \t\r\n")
		}

		fmt.Println("password?")
		pwd, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Printf("Unable to read password: %s", err)
			os.Exit(1)
			return
		}
		for len(pwd) < LoadedConfig.Behaviour.PasswordMinLength {
			fmt.Printf(
				"password needs to be at least %d long.\r\n",
				LoadedConfig.Behaviour.PasswordMinLength,
			)
			fmt.Println("password?")
			pwd, err = term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				fmt.Printf("Unable to read password: %s", err)
				os.Exit(1)
				return
			}
		}
		hashed, err := bcrypt.GenerateFromPassword(pwd, bcrypt.DefaultCost)
		if err != nil {
			fmt.Printf("Unable to hash password: %s", err)
			os.Exit(1)
			return
		}
		id, err := dataStore.InsertUser(context.Background(), trimmed, nil, nil, string(hashed))
		if err != nil {
			fmt.Printf("Unable to create user: %s \r\n", err)
			os.Exit(1)
			return
		}
		if createSuperuser {
			err = dataStore.SetSuperuser(context.Background(), id, true)
			if err != nil {
				fmt.Printf("Unable to flag user as superuser: %s \r\n", err)
				os.Exit(1)
				return
			}
		}
		fmt.Printf("Created user for email %s with id: %v", trimmed, id)
	},
}

func init() {
	userCreateCommand.Flags().
		BoolVar(&createSuperuser, "superuser", false, "flag the account as operator, operators may use the manage endpoint")
}
