package main

import (
	"fmt"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"

	"taskboard-client/devserver"
	"taskboard-client/domain"
)

func devserverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local task API emulator",
		Long: `Runs an in-process emulation of the task API for development:
REST endpoints, the /ws event feed, and three seeded accounts
(admin@local, manager@local, member@local; password "password").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			secret, _ := cmd.Flags().GetString("secret")

			logger := log.StandardLogger()
			srv := devserver.New([]byte(secret), logger)
			srv.SeedUser("Local Admin", "admin@local", "password", domain.RoleAdmin)
			srv.SeedUser("Local Manager", "manager@local", "password", domain.RoleManager)
			srv.SeedUser("Local Member", "member@local", "password", domain.RoleMember)

			fmt.Printf("Dev server on %s (feed at ws://%s/ws)\n", addr, addr)
			return srv.Start(addr)
		},
	}

	cmd.Flags().String("addr", "127.0.0.1:8089", "Listen address")
	cmd.Flags().String("secret", "dev-secret", "HS256 signing secret for issued tokens")
	return cmd
}
