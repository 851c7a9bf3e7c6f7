package main

import (
	"github.com/spf13/cobra"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the configured admin account if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		return a.seedAdmin(cmd.Context())
	},
}
