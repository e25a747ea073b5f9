package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskboard-client/domain"
)

func boardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List and create boards",
	}
	cmd.AddCommand(boardsListCmd())
	cmd.AddCommand(boardsCreateCmd())
	return cmd
}

func boardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boards visible to the current role",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleManager, domain.RoleMember); err != nil {
				return err
			}

			var boards []domain.Board
			if a.sessions.Session().Role == domain.RoleManager {
				boards, err = a.api.ManagerBoards(cmd.Context())
			} else {
				boards, err = a.api.MyBoards(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(boards) == 0 {
				fmt.Println("No boards")
				return nil
			}
			for _, b := range boards {
				fmt.Printf("%s  %s  (%d members)\n", b.ID, b.Name, len(b.Members))
			}
			return nil
		},
	}
}

func boardsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleManager); err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return errors.New("--name is required")
			}
			description, _ := cmd.Flags().GetString("description")
			members, _ := cmd.Flags().GetStringSlice("members")

			board, err := a.api.CreateBoard(cmd.Context(), name, description, members)
			if err != nil {
				return err
			}
			fmt.Printf("Created board %s (%s)\n", board.Name, board.ID)
			return nil
		},
	}

	cmd.Flags().StringP("name", "n", "", "Board name")
	cmd.Flags().StringP("description", "d", "", "Board description")
	cmd.Flags().StringSliceP("members", "m", nil, "Member user ids")
	return cmd
}
