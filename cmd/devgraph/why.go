package devgraph

import (
	"strings"

	"github.com/spf13/cobra"
)

var whyLoadPaths []string

var whyCmd = &cobra.Command{
	Use:   "why [topic]",
	Short: "Explain why something was decided",
	Long: `Load record files into a knowledge graph and explain the reasoning
behind a decision, citing the meetings and people involved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWhy,
}

func init() {
	rootCmd.AddCommand(whyCmd)
	whyCmd.Flags().StringSliceVar(&whyLoadPaths, "load", nil, "Record files or directories to ingest first")
	whyCmd.MarkFlagRequired("load")
}

func runWhy(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := ingestPaths(cmd.Context(), client, whyLoadPaths); err != nil {
		return err
	}

	result, err := client.Query(cmd.Context(), "Why was the following decided: "+strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printJSON(result)
}
