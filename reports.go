package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard-client/domain"
)

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Admin reporting",
	}
	cmd.AddCommand(reportsOverviewCmd())
	cmd.AddCommand(reportsBoardsCmd())
	cmd.AddCommand(reportsBoardCmd())
	cmd.AddCommand(reportsBoardUsersCmd())
	return cmd
}

func reportsOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Global stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleAdmin); err != nil {
				return err
			}

			overview, err := a.api.ReportOverview(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Boards: %d\nTasks: %d (%d completed)\nUsers: %d\n",
				overview.TotalBoards, overview.TotalTasks, overview.CompletedTasks, overview.TotalUsers)
			return nil
		},
	}
}

func reportsBoardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "Boards available for reporting",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleAdmin); err != nil {
				return err
			}

			boards, err := a.api.ReportBoards(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range boards {
				fmt.Printf("%s  %s\n", b.ID, b.Name)
			}
			return nil
		},
	}
}

func reportsBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board [board-id]",
		Short: "Per-board stats",
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

			stats, err := a.api.ReportBoardStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d tasks (todo %d / in progress %d / done %d)\n",
				stats.Board.Name, stats.TotalTasks, stats.TodoTasks, stats.InProgress, stats.CompletedTasks)
			return nil
		},
	}
}

func reportsBoardUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board-users [board-id]",
		Short: "Per-member stats within a board",
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

			stats, err := a.api.ReportBoardUserStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range stats {
				fmt.Printf("%s: %d assigned, %d completed\n", s.User.Fullname, s.AssignedTasks, s.CompletedTasks)
			}
			return nil
		},
	}
}
