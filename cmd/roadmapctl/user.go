package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/roadmap-backend/internal/domain/user"
	"github.com/yungbote/roadmap-backend/internal/services"
)

var (
	userEmail    string
	userPassword string
	userRole     string
	userName     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		a, err := e.openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		in := services.UserInput{Email: &userEmail, Password: &userPassword, Role: &userRole}
		if userName != "" {
			in.DisplayName = &userName
		}
		u, err := a.Services.User.Create(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s> role=%s\n", u.ID, u.Email, u.Role)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "login email (required)")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "password, at least 8 characters (required)")
	createUserCmd.Flags().StringVar(&userRole, "role", user.RoleViewer, "admin, editor or viewer")
	createUserCmd.Flags().StringVar(&userName, "name", "", "display name")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createUserCmd)
}
