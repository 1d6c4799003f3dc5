package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/aegraph/formatter"
	"github.com/gnoswap-labs/aegraph/internal/graph"
)

var (
	applyRule string
	applyPath string
	showDiff  bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <graph>",
	Short: "Apply one inference rule to a graph",
	Long: `Applies an inference rule at the given path and prints the canonical result.
Example) aegraph apply "([[A]], B)" --rule double-cut --path 0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := readGraphArg(args[0], cmd.InOrStdin())
		if err != nil {
			logger.Error("Invalid graph", zap.Error(err))
			os.Exit(1)
		}
		if err := runApply(cmd.OutOrStdout(), g, applyRule, applyPath, showDiff); err != nil {
			logger.Error("Error applying rule", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyRule, "rule", "r", "", "Inference rule (double-cut, erasure, deiteration)")
	applyCmd.Flags().StringVarP(&applyPath, "path", "p", "", "Comma-separated child indices of the site, e.g. 0,1")
	applyCmd.Flags().BoolVar(&showDiff, "diff", false, "Show what changed")
	_ = applyCmd.MarkFlagRequired("rule")
	_ = applyCmd.MarkFlagRequired("path")
}

func runApply(w io.Writer, g *graph.Graph, ruleName, pathSpec string, diff bool) error {
	rule, err := graph.ParseRule(ruleName)
	if err != nil {
		return err
	}
	where, err := graph.ParsePath(pathSpec)
	if err != nil {
		return err
	}

	sites, err := g.Sites(rule)
	if err != nil {
		return err
	}
	legal := false
	for _, s := range sites {
		if s.Equal(where) {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%s cannot be applied at [%s] of %s", rule, where, g)
	}

	out, err := g.Apply(rule, where)
	if err != nil {
		return err
	}
	out = out.Canonical()

	if diff {
		fmt.Fprintln(w, formatter.Diff(g.String(), out.String()))
	}
	fmt.Fprintln(w, out)
	return nil
}
