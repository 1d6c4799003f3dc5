package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/aegraph/internal/graph"
	"github.com/gnoswap-labs/aegraph/proof"
)

var sitesRule string

var sitesCmd = &cobra.Command{
	Use:   "sites <graph>",
	Short: "List the paths at which each inference rule applies",
	Long: `Lists, for every enabled inference rule, the paths at which it can be applied
to the graph.
Example) aegraph sites "(A, [[B]])" --rule double-cut`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := readGraphArg(args[0], cmd.InOrStdin())
		if err != nil {
			logger.Error("Invalid graph", zap.Error(err))
			os.Exit(1)
		}

		engine, err := proof.New(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize proof engine", zap.Error(err))
		}

		rules := engine.EnabledRules()
		if sitesRule != "" {
			rules = []string{sitesRule}
		}
		if err := runSites(cmd.OutOrStdout(), g, rules); err != nil {
			logger.Error("Error listing sites", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	sitesCmd.Flags().StringVarP(&sitesRule, "rule", "r", "", "Only list the sites of this rule")
}

func runSites(w io.Writer, g *graph.Graph, rules []string) error {
	for _, name := range rules {
		rule, err := graph.ParseRule(name)
		if err != nil {
			return err
		}
		sites, err := g.Sites(rule)
		if err != nil {
			return err
		}

		parts := make([]string, len(sites))
		for i, s := range sites {
			parts[i] = "[" + s.String() + "]"
		}
		list := strings.Join(parts, " ")
		if list == "" {
			list = "none"
		}
		fmt.Fprintf(w, "%s: %s\n", rule, list)
	}
	return nil
}
