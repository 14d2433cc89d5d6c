package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	authCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate against the API",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a bearer token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		token, err := apiClient.Login(context.Background(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Println(token)
		fmt.Fprintf(cmd.ErrOrStderr(), "Export %s=<token> or pass --auth-token to use it.\n", envAuthToken)
		return nil
	},
}

// GetAuthCmd returns the auth command
func GetAuthCmd() *cobra.Command {
	return authCmd
}
