package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var canonCmd = &cobra.Command{
	Use:   "canon <graph>",
	Short: "Print the canonical form of a graph",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, err := readGraphArg(args[0], cmd.InOrStdin())
		if err != nil {
			logger.Error("Invalid graph", zap.Error(err))
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), g.Canonical())
	},
}
