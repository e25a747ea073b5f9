package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskboard-client/authflow"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			useGoogle, _ := cmd.Flags().GetBool("google")
			var token string
			if useGoogle {
				token, err = googleToken(cmd, a)
			} else {
				token, err = passwordToken(cmd, a)
			}
			if err != nil {
				return err
			}

			if err := a.sessions.Login(token); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			sess := a.sessions.Session()
			fmt.Printf("Signed in as %s (%s)\n", sess.UserID, sess.Role)
			return nil
		},
	}

	cmd.Flags().StringP("email", "e", "", "Account email")
	cmd.Flags().StringP("password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().Bool("google", false, "Sign in with Google")
	return cmd
}

func passwordToken(cmd *cobra.Command, a *app) (string, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if email == "" {
		return "", errors.New("--email is required")
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", err
		}
		password = strings.TrimSpace(line)
	}
	return a.api.Login(cmd.Context(), email, password)
}

func googleToken(cmd *cobra.Command, a *app) (string, error) {
	if a.cfg.GoogleClientID == "" || a.cfg.GoogleClientSecret == "" {
		return "", errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be configured")
	}
	flow := authflow.NewGoogleFlow(a.cfg.GoogleClientID, a.cfg.GoogleClientSecret, "urn:ietf:wg:oauth:2.0:oob")
	state, err := authflow.StateToken()
	if err != nil {
		return "", err
	}
	fmt.Printf("Open this URL and grant access:\n\n  %s\n\nAuthorization code: ", flow.AuthURL(state))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	idToken, err := flow.Exchange(cmd.Context(), strings.TrimSpace(line))
	if err != nil {
		return "", err
	}
	return a.api.LoginGoogle(cmd.Context(), idToken)
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fullname, _ := cmd.Flags().GetString("fullname")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if fullname == "" || email == "" || password == "" {
				return errors.New("--fullname, --email and --password are required")
			}
			user, err := a.api.Register(cmd.Context(), fullname, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s, now run `taskboard login`\n", user.Email)
			return nil
		},
	}

	cmd.Flags().String("fullname", "", "Full name")
	cmd.Flags().StringP("email", "e", "", "Account email")
	cmd.Flags().StringP("password", "p", "", "Account password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			a.sessions.Logout()
			fmt.Println("Signed out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			sess := a.sessions.Session()
			if !sess.Authenticated {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Printf("User: %s\nRole: %s\nDashboard: %s\n", sess.UserID, sess.Role, sess.Role.HomeRoute())
			return nil
		},
	}
}
