package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/aegraph/formatter"
	"github.com/gnoswap-labs/aegraph/internal"
	"github.com/gnoswap-labs/aegraph/internal/script"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
	"github.com/gnoswap-labs/aegraph/proof"
)

var (
	ignoreRules     string
	checkJsonOutput bool
	outPath         string
	watchProofs     bool
	showTrace       bool
	traceDiff       bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check proof scripts",
	Long: `Replays every step of the given proof scripts (*.proof.yaml) and reports
steps that cannot be carried out, results that differ from the expected ones
and proofs that do not reach their conclusion.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		engine, err := newCheckEngine()
		if err != nil {
			logger.Fatal("Failed to initialize proof engine", zap.Error(err))
		}

		if ignoreRules != "" {
			for _, rule := range strings.Split(ignoreRules, ",") {
				engine.IgnoreRule(strings.TrimSpace(rule))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		w := cmd.OutOrStdout()
		issues, err := proof.ProcessFiles(ctx, logger, engine, args, proof.ProcessFile)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
		}
		if err := printIssues(w, issues, checkJsonOutput, outPath); err != nil {
			logger.Error("Error printing issues", zap.Error(err))
		}
		if showTrace {
			printTraces(w, engine, args, traceDiff)
		}

		if watchProofs {
			watchAndReport(w, engine, args)
			return
		}

		if err != nil || len(issues) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of inference rules to disallow")
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVarP(&watchProofs, "watch", "w", false, "Check proof scripts again whenever they change")
	checkCmd.Flags().BoolVar(&showTrace, "trace", false, "Print the graphs each proof file goes through")
	checkCmd.Flags().BoolVar(&traceDiff, "trace-diff", false, "Show what each step changed (with --trace)")
}

// newCheckEngine builds the engine from the configuration, with the result
// cache when the configuration enables one.
func newCheckEngine() (*internal.Engine, error) {
	config, err := proof.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	engine, err := internal.NewEngine(config.Rules)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(logger)

	cache, err := config.OpenCache()
	if err != nil {
		return nil, err
	}
	if cache != nil {
		engine.UseCache(cache)
	}
	return engine, nil
}

func printIssues(w io.Writer, issues []tt.Issue, isJson bool, jsonOutput string) error {
	if !isJson {
		_, err := fmt.Fprint(w, formatter.FormatIssues(issues))
		return err
	}

	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}
	d, err := json.Marshal(issuesByFile)
	if err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}

// printTraces prints the trace of every proof script named directly in
// paths, with the diff of every step when showDiff is set. Directories are
// skipped.
func printTraces(w io.Writer, engine *internal.Engine, paths []string, showDiff bool) {
	for _, path := range paths {
		if !internal.IsProofFile(path) {
			continue
		}
		s, err := script.Load(path)
		if err != nil {
			logger.Error("Error loading proof script", zap.String("file", path), zap.Error(err))
			continue
		}
		trace, _ := engine.Replay(s)
		if trace.Name == "" {
			trace.Name = path
		}
		fmt.Fprintln(w, formatter.FormatTrace(trace, showDiff))
	}
}

// watchAndReport blocks, printing the issues of every proof script written
// under paths, until the process is interrupted.
func watchAndReport(w io.Writer, engine *internal.Engine, paths []string) {
	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			p = filepath.Dir(p)
		}
		dirs = append(dirs, p)
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	err := engine.StartWatching(dirs, func(filename string, issues []tt.Issue) {
		if len(issues) == 0 {
			fmt.Fprintf(w, "%s: ok\n", filename)
			return
		}
		fmt.Fprint(w, formatter.FormatIssues(issues))
	})
	if err != nil {
		logger.Fatal("Failed to watch proof scripts", zap.Error(err))
	}
	logger.Info("watching for changes", zap.Strings("dirs", dirs))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()

	if err := engine.StopWatching(); err != nil {
		logger.Error("Error stopping watcher", zap.Error(err))
	}
}
