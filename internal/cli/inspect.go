package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

// inspectCommand creates the "inspect" command: load a graph document into
// an instance and print what the engine made of it.
func (c *CLI) inspectCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inspect <document.json>",
		Short: "Load a graph document and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			st, err := storeFromDocument(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer st.Destroy()

			prog.done(fmt.Sprintf("Loaded %s", args[0]))

			fmt.Println(StyleTitle.Render(st.ID()))
			printStats(st.NodeCount(), st.EdgeCount())

			bounds := st.Bounds()
			if st.NodeCount() > 0 && !math.IsInf(bounds.X, 1) {
				printKeyValue("bounds", fmt.Sprintf("(%g, %g) %g×%g",
					bounds.X, bounds.Y, bounds.Width, bounds.Height))
			}

			roots, parents := 0, 0
			for _, n := range st.Nodes() {
				if n.ParentID == "" {
					roots++
				}
				if n.IsParent {
					parents++
				}
			}
			printKeyValue("roots", fmt.Sprintf("%d", roots))
			printKeyValue("parents", fmt.Sprintf("%d", parents))

			t := st.Viewport()
			printKeyValue("viewport", fmt.Sprintf("x=%g y=%g zoom=%g", t.X, t.Y, t.Zoom))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to flowgrid.toml")
	return cmd
}
