package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sangkips/ventapett-pos/internal/application/service"
)

func newLoginCommand(a *app) *cobra.Command {
	var rut, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the store API",
		Long:  "Log in with your rut and password. The password may also come from POS_PASSWORD.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("POS_PASSWORD")
			}

			out, err := a.auth.Login(cmd.Context(), &service.LoginInput{Rut: rut, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", out.User.Name, out.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&rut, "rut", "", "account rut, e.g. 12345678-9")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
