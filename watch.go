package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskboard-client/cache"
	"taskboard-client/domain"
	"taskboard-client/feed"
	"taskboard-client/session"
)

// printNotifier renders feed notifications to stdout, the CLI's stand-in
// for toast popups.
type printNotifier struct{}

func (printNotifier) TaskCreated(t domain.Task) {
	fmt.Printf("★ new task assigned to you: %s\n", t.Title)
}

func (printNotifier) TaskUpdated(t domain.Task) {
	fmt.Printf("↻ task updated: %s [%s]\n", t.Title, t.Status)
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live task events for a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleManager, domain.RoleMember); err != nil {
				return err
			}

			boardID, _ := cmd.Flags().GetString("board")
			if boardID == "" {
				return errors.New("--board is required")
			}
			allTasks, _ := cmd.Flags().GetBool("all")
			view := cache.ViewMine
			resync := func(ctx context.Context) ([]domain.Task, error) {
				return a.api.MyBoardTasks(ctx, boardID)
			}
			if allTasks {
				view = cache.ViewAll
				resync = func(ctx context.Context) ([]domain.Task, error) {
					return a.api.BoardTasks(ctx, boardID)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sess := a.sessions.Session()
			store := cache.NewStore()
			adapter := feed.New(feed.Config{
				URL:        a.cfg.WSURL,
				UserID:     sess.UserID,
				ActiveView: view,
				Resync:     resync,
			}, nil, store, printNotifier{}, a.log)
			defer adapter.Close()

			// A logout from any other process using the same Redis ends
			// the watch.
			cancel := a.sessions.Subscribe(func(s session.Session) {
				if !s.Authenticated {
					stop()
				}
			})
			defer cancel()
			if a.bcast != nil {
				go a.bcast.Listen(ctx, a.sessions)
			}

			fmt.Printf("Watching board %s (%s view), Ctrl-C to stop\n", boardID, view)
			return adapter.Run(ctx)
		},
	}

	cmd.Flags().StringP("board", "b", "", "Board id")
	cmd.Flags().Bool("all", false, "Watch the all-tasks view instead of my-tasks")
	return cmd
}
