package cmd

import (
	"github.com/spf13/cobra"

	"github.com/followme/attendance-cli/pkg/service"
)

var saveCredentials bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage authentication with the attendance server",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the configured server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(app).Login(saveCredentials)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the cached token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(app).Logout()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached token state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(app).Status()
	},
}

func init() {
	loginCmd.Flags().BoolVar(&saveCredentials, "save", false, "Persist entered credentials for background submission")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}
