package devgraph

import (
	"github.com/spf13/cobra"
)

var (
	rippleLoadPaths []string
	rippleChange    string
)

var rippleCmd = &cobra.Command{
	Use:   "ripple [artifact-id]",
	Short: "Evaluate the downstream impact of changing an artifact",
	Long: `Load record files into a knowledge graph and walk the dependency
chains outward from the given artifact, grading the impact of the
described change on everything reachable.`,
	Args: cobra.ExactArgs(1),
	RunE: runRipple,
}

func init() {
	rootCmd.AddCommand(rippleCmd)
	rippleCmd.Flags().StringSliceVar(&rippleLoadPaths, "load", nil, "Record files or directories to ingest first")
	rippleCmd.Flags().StringVar(&rippleChange, "change", "", "Description of the change")
	rippleCmd.MarkFlagRequired("load")
	rippleCmd.MarkFlagRequired("change")
}

func runRipple(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := ingestPaths(cmd.Context(), client, rippleLoadPaths); err != nil {
		return err
	}

	report, err := client.DetectRipple(cmd.Context(), args[0], rippleChange)
	if err != nil {
		return err
	}
	return printJSON(report)
}
