package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskboard-client/domain"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Admin user management",
	}
	cmd.AddCommand(usersListCmd())
	cmd.AddCommand(usersSetRoleCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleAdmin); err != nil {
				return err
			}

			users, err := a.api.AdminUsers(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%s  %-8s  %s <%s>\n", u.ID, u.Role, u.Fullname, u.Email)
			}
			return nil
		},
	}
}

func usersSetRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-role [user-id]",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleAdmin); err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetString("role")
			role, err := domain.ParseRole(raw)
			if err != nil {
				return errors.New("--role must be one of Admin, Manager, Member")
			}
			user, err := a.api.UpdateRole(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", user.Fullname, user.Role)
			return nil
		},
	}

	cmd.Flags().StringP("role", "r", "", "New role (Admin|Manager|Member)")
	return cmd
}
