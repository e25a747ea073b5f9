package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskboard-client/client"
	"taskboard-client/domain"
)

func commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write task comments",
	}
	cmd.AddCommand(commentsListCmd())
	cmd.AddCommand(commentsAddCmd())
	return cmd
}

func commentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [task-id]",
		Short: "List the comments on a task",
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

			comments, err := a.api.Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Println("No comments")
				return nil
			}
			for _, c := range comments {
				fmt.Printf("%s  %s: %s\n", c.CreatedAt, c.Author.Fullname, c.Content)
			}
			return nil
		},
	}
}

func commentsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [task-id]",
		Short: "Comment on a task",
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

			content, _ := cmd.Flags().GetString("message")
			if content == "" {
				return errors.New("--message is required")
			}
			paths, _ := cmd.Flags().GetStringSlice("attach")
			if len(paths) > client.MaxUploadFiles {
				return client.ErrTooManyFiles
			}
			files, cleanup, err := openUploads(paths)
			if err != nil {
				return err
			}
			defer cleanup()

			comment, err := a.api.CreateComment(cmd.Context(), args[0], content, files)
			if err != nil {
				return err
			}
			fmt.Printf("Comment %s added\n", comment.ID)
			return nil
		},
	}

	cmd.Flags().StringP("message", "m", "", "Comment text")
	cmd.Flags().StringSlice("attach", nil, "Attachment file paths")
	return cmd
}
