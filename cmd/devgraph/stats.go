package devgraph

import (
	"github.com/spf13/cobra"
)

var statsLoadPaths []string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print knowledge graph statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringSliceVar(&statsLoadPaths, "load", nil, "Record files or directories to ingest first")
	statsCmd.MarkFlagRequired("load")
}

func runStats(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := ingestPaths(cmd.Context(), client, statsLoadPaths); err != nil {
		return err
	}
	return printJSON(client.Stats())
}
