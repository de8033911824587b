package main

import (
	"github.com/spf13/cobra"
)

const defaultProfileBatchSize = 150

func profilesCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "profiles <mid>...",
		Short: "Look up user profiles",
		Long:  "Fetches display name, picture and status message for each mid, keyed by mid.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			profiles, err := client.GetProfilesMapBatched(cmd.Context(), args, batchSize)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), profiles)
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", defaultProfileBatchSize, "mids per profile request")

	return cmd
}
