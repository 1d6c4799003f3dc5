package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/aegraph/formatter"
)

var dotOutput string

// renderedFormats are written by piping the dot text through GraphViz.
var renderedFormats = map[string]bool{
	"svg": true,
	"png": true,
	"pdf": true,
}

var dotCmd = &cobra.Command{
	Use:   "dot <graph>",
	Short: "Render a graph in GraphViz format",
	Long: `Outputs the graph as a GraphViz digraph. With --output ending in .svg, .png
or .pdf the digraph is rendered with the dot tool.
Example) aegraph dot "(A, [B, [C]])" -o graph.svg`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := readGraphArg(args[0], cmd.InOrStdin())
		if err != nil {
			logger.Error("Invalid graph", zap.Error(err))
			os.Exit(1)
		}

		text := formatter.Dot(g)
		format := strings.TrimPrefix(filepath.Ext(dotOutput), ".")
		if renderedFormats[format] {
			err = renderGraphViz([]byte(text), format, dotOutput)
		} else {
			err = writeOutput(cmd.OutOrStdout(), dotOutput, text)
		}
		if err != nil {
			logger.Error("Failed to write GraphViz output", zap.Error(err))
			os.Exit(1)
		}
		if dotOutput != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "GraphViz file created: %s\n", dotOutput)
		}
	},
}

func init() {
	dotCmd.Flags().StringVarP(&dotOutput, "output", "o", "", "Output path (.dot text, or .svg/.png/.pdf rendered)")
}

func renderGraphViz(dot []byte, format, output string) error {
	var stderr bytes.Buffer
	c := exec.Command("dot", "-T"+format, "-o", output)
	c.Stdin = bytes.NewReader(dot)
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("dot: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
