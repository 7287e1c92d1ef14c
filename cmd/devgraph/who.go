package devgraph

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

var whoLoadPaths []string

var whoCmd = &cobra.Command{
	Use:   "who [name]",
	Short: "List what a person is responsible for",
	Long: `Load record files into a knowledge graph and list the action items
assigned to a person and the decisions they made.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWho,
}

func init() {
	rootCmd.AddCommand(whoCmd)
	whoCmd.Flags().StringSliceVar(&whoLoadPaths, "load", nil, "Record files or directories to ingest first")
	whoCmd.MarkFlagRequired("load")
}

func runWho(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := ingestPaths(cmd.Context(), client, whoLoadPaths); err != nil {
		return err
	}

	name := strings.Join(args, " ")
	person := &types.Artifact{Kind: types.KindPerson, Name: name}
	personID, ok := client.Resolve(person.NaturalKey())
	if !ok {
		return fmt.Errorf("no person named %q in the graph", name)
	}

	// Incoming ASSIGNED_TO and MADE_BY edges point from the work to the
	// person.
	attached, err := client.Neighbors(personID, graph.NeighborOptions{
		Kinds:     []types.RelationKind{types.RelationAssignedTo, types.RelationMadeBy},
		Direction: types.DirectionIncoming,
	})
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"person":    name,
		"artifacts": attached,
	})
}
