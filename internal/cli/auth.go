package cli

import (
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, log in, and inspect your identity",
	}

	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newMeCmd())

	return cmd
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result AuthResult
			err := client.Post("/api/v1/auth/register", map[string]string{
				"username": args[0],
				"password": args[1],
			}, &result)
			if err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage("Registered and logged in as " + args[0])
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in to an existing account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result AuthResult
			err := client.Post("/api/v1/auth/login", map[string]string{
				"username": args[0],
				"password": args[1],
			}, &result)
			if err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage("Logged in as " + args[0])
			return nil
		},
	}
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result *User
			if err := client.Get("/api/v1/auth/me", &result); err != nil {
				out.PrintError(err)
				return err
			}

			if result == nil {
				out.PrintMessage("Not logged in")
				return nil
			}

			out.Print(*result)
			return nil
		},
	}
}
