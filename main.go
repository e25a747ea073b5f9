package main

import (
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:     "taskboard",
		Short:   "Client for the task-management backend",
		Version: Version,
	}

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(boardsCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(commentsCmd())
	rootCmd.AddCommand(reportsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(devserverCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
