package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"taskboard-client/client"
	"taskboard-client/domain"
)

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks",
	}
	cmd.AddCommand(tasksListCmd())
	cmd.AddCommand(tasksCreateCmd())
	cmd.AddCommand(tasksMoveCmd())
	cmd.AddCommand(tasksUploadResultCmd())
	return cmd
}

func openUploads(paths []string) ([]client.FileUpload, func(), error) {
	files := make([]client.FileUpload, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))
	cleanup := func() {
		for _, f := range handles {
			_ = f.Close()
		}
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		handles = append(handles, f)
		files = append(files, client.FileUpload{Name: filepath.Base(p), Reader: f})
	}
	return files, cleanup, nil
}

func tasksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks on a board",
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
			mine, _ := cmd.Flags().GetBool("mine")

			var tasks []domain.Task
			if mine {
				tasks, err = a.api.MyBoardTasks(cmd.Context(), boardID)
			} else {
				tasks, err = a.api.BoardTasks(cmd.Context(), boardID)
			}
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No tasks")
				return nil
			}
			for _, t := range tasks {
				fmt.Printf("%s  [%s]  %s\n", t.ID, t.Status, t.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringP("board", "b", "", "Board id")
	cmd.Flags().Bool("mine", false, "Only tasks assigned to me")
	return cmd
}

func tasksCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleManager); err != nil {
				return err
			}

			title, _ := cmd.Flags().GetString("title")
			boardID, _ := cmd.Flags().GetString("board")
			if title == "" || boardID == "" {
				return errors.New("--title and --board are required")
			}
			description, _ := cmd.Flags().GetString("description")
			status, _ := cmd.Flags().GetString("status")
			dueDate, _ := cmd.Flags().GetString("due")
			assignees, _ := cmd.Flags().GetStringSlice("assignees")
			paths, _ := cmd.Flags().GetStringSlice("attach")

			if len(paths) > client.MaxUploadFiles {
				return client.ErrTooManyFiles
			}
			files, cleanup, err := openUploads(paths)
			if err != nil {
				return err
			}
			defer cleanup()

			task, err := a.api.CreateTask(cmd.Context(), client.CreateTaskInput{
				Title:       title,
				Description: description,
				BoardID:     boardID,
				Status:      domain.Status(status),
				DueDate:     dueDate,
				Assignees:   assignees,
				Attachments: files,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created task %s (%s)\n", task.Title, task.ID)
			return nil
		},
	}

	cmd.Flags().StringP("title", "t", "", "Task title")
	cmd.Flags().StringP("board", "b", "", "Board id")
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().String("status", string(domain.StatusTodo), "Initial status (todo|progress|complete)")
	cmd.Flags().String("due", "", "Due date")
	cmd.Flags().StringSliceP("assignees", "a", nil, "Assignee user ids")
	cmd.Flags().StringSlice("attach", nil, "Attachment file paths")
	return cmd
}

func tasksMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [task-id]",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleManager, domain.RoleMember); err != nil {
				return err
			}

			status, _ := cmd.Flags().GetString("status")
			task, err := a.api.MoveTask(cmd.Context(), args[0], domain.Status(status))
			if err != nil {
				return err
			}
			fmt.Printf("Moved %s to %s\n", task.Title, task.Status)
			return nil
		},
	}

	cmd.Flags().StringP("status", "s", "", "Target status (todo|progress|complete)")
	return cmd
}

func tasksUploadResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload-result [task-id]",
		Short: "Attach result files to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireRoles(domain.RoleMember); err != nil {
				return err
			}

			paths, _ := cmd.Flags().GetStringSlice("file")
			if len(paths) == 0 {
				return errors.New("--file is required")
			}
			if len(paths) > client.MaxUploadFiles {
				return client.ErrTooManyFiles
			}
			files, cleanup, err := openUploads(paths)
			if err != nil {
				return err
			}
			defer cleanup()

			task, err := a.api.UploadResult(cmd.Context(), args[0], files)
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded %d result file(s) to %s\n", len(files), task.Title)
			return nil
		},
	}

	cmd.Flags().StringSliceP("file", "f", nil, "Result file paths")
	return cmd
}
