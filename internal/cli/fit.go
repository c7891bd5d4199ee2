package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgridhq/flowgrid/pkg/geometry"
)

// fitCommand creates the "fit" command: compute the viewport transform that
// fits a document inside a given viewport.
func (c *CLI) fitCommand() *cobra.Command {
	var (
		configPath    string
		width, height float64
		padding       float64
	)

	cmd := &cobra.Command{
		Use:   "fit <document.json>",
		Short: "Compute the viewport transform that fits a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if width <= 0 || height <= 0 {
				return fmt.Errorf("viewport %gx%g is not a valid size", width, height)
			}

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			st, err := storeFromDocument(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer st.Destroy()

			if !st.FitView(width, height, padding, geometry.XYPosition{}) {
				printWarning("document has no nodes, viewport left untouched")
				return nil
			}

			t := st.Viewport()
			printSuccess("fitted %d nodes into %gx%g", st.NodeCount(), width, height)
			printKeyValue("x", fmt.Sprintf("%g", t.X))
			printKeyValue("y", fmt.Sprintf("%g", t.Y))
			printKeyValue("zoom", fmt.Sprintf("%g", t.Zoom))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to flowgrid.toml")
	cmd.Flags().Float64Var(&width, "width", 800, "viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", 600, "viewport height in pixels")
	cmd.Flags().Float64Var(&padding, "padding", 0.1, "proportional padding around the bounds")
	return cmd
}
