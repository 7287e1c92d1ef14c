package devgraph

import (
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or directories]",
	Short: "Ingest meeting and document records and print graph stats",
	Long: `Ingest record files (JSON or YAML) into a fresh knowledge graph and
print the resulting graph statistics. Useful for validating record
files and extraction quality before serving.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := ingestPaths(cmd.Context(), client, args); err != nil {
		return err
	}
	return printJSON(client.Stats())
}
