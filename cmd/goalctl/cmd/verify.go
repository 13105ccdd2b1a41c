package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/goalpace/internal/app"
	"github.com/templui/goalpace/internal/model"
)

func VerifyCmd() *cobra.Command {
	var userEmail string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every goal's value matches a replay of its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd, userEmail, func(a *app.App, user *model.User) error {
				if err := a.GoalService.Verify(user.ID); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userEmail, "user", "u", "", "email of the goal owner")

	return cmd
}
