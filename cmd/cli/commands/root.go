package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ventureforge/forge/pkg/api/v1/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagAuthToken     = "auth-token"
)

// environment variable names
const (
	envServerAddress = "FORGE_SERVER_ADDRESS"
	envAuthToken     = "FORGE_AUTH_TOKEN"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// authToken holds the bearer token for authenticated endpoints.
	authToken string
)

// initClient initializes the API client
func initClient() error {
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.AuthToken = authToken

	var err error
	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", client.DefaultBaseURL, "Address of the VentureForge API server (env: FORGE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVarP(&authToken, flagAuthToken, "t", "", "Bearer token for authenticated endpoints (env: FORGE_AUTH_TOKEN)")

	RootCmd.AddCommand(GetAuthCmd())
	RootCmd.AddCommand(GetJobsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "forge",
	Short: "VentureForge CLI - A command line interface for the VentureForge API",
	Long: `VentureForge CLI is a command line tool for managing recurring research jobs
through the VentureForge API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env var > default, same precedence for both settings.
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagAuthToken) {
			if envTok := os.Getenv(envAuthToken); envTok != "" {
				authToken = envTok
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
