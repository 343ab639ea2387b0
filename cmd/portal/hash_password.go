package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frontiertower/portal-backend/internal/auth"
)

// hashPasswordCmd produces the bcrypt hash for admin.password_hash.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Generate a bcrypt hash for the admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
