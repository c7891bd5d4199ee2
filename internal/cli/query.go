package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgridhq/flowgrid/pkg/flow"
)

// queryCommand creates the "query" command: connectivity lookups against a
// document, printed for humans.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		configPath string
		direction  string
	)

	cmd := &cobra.Command{
		Use:   "query <document.json> <node-id>",
		Short: "Print outgoers, incomers, or connected edges for a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			st, err := storeFromDocument(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer st.Destroy()

			nodeID := args[1]
			if _, ok := st.FindNode(nodeID); !ok {
				printError("node %q not found", nodeID)
				return fmt.Errorf("node %q not found", nodeID)
			}

			nodes, edges := st.Nodes(), st.Edges()
			switch direction {
			case "out":
				printNodes("outgoers", flow.Outgoers(nodeID, nodes, edges))
			case "in":
				printNodes("incomers", flow.Incomers(nodeID, nodes, edges))
			case "edges":
				connected := flow.ConnectedEdges(edges, nodeID)
				printInfo("%d connected edges", len(connected))
				for _, e := range connected {
					printEdge(e.ID, e.Source, e.Target)
				}
			case "all":
				printNodes("outgoers", flow.Outgoers(nodeID, nodes, edges))
				printNodes("incomers", flow.Incomers(nodeID, nodes, edges))
				connected := flow.ConnectedEdges(edges, nodeID)
				printInfo("%d connected edges", len(connected))
				for _, e := range connected {
					printEdge(e.ID, e.Source, e.Target)
				}
			default:
				return fmt.Errorf("unknown direction %q (want out, in, edges, or all)", direction)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to flowgrid.toml")
	cmd.Flags().StringVarP(&direction, "direction", "d", "all", "what to print: out, in, edges, or all")
	return cmd
}

func printNodes(label string, nodes []flow.Node) {
	printInfo("%d %s", len(nodes), label)
	for _, n := range nodes {
		line := n.ID
		if n.Label != "" {
			line += " " + StyleDim.Render("("+n.Label+")")
		}
		printDetail("%s", line)
	}
}
