package devgraph

import (
	"strings"

	"github.com/spf13/cobra"
)

var queryLoadPaths []string

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over the knowledge graph",
	Long: `Load record files into a knowledge graph and answer a question over
it. The answer is grounded in retrieved artifacts; their ids and
texts are listed as sources.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringSliceVar(&queryLoadPaths, "load", nil, "Record files or directories to ingest first")
	queryCmd.MarkFlagRequired("load")
}

func runQuery(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := ingestPaths(cmd.Context(), client, queryLoadPaths); err != nil {
		return err
	}

	result, err := client.Query(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printJSON(result)
}
