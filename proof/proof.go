package proof

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/aegraph/internal"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

// Engine checks proof scripts.
type Engine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
}

// New builds an engine from the configuration at configurationPath.
func New(configurationPath string) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}

	return internal.NewEngine(config.Rules)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
	processor func(Engine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor func(Engine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var (
		allIssues []tt.Issue
		errs      []error
	)
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		allIssues = append(allIssues, issues...)
		if err == nil {
			continue
		}
		if logger != nil {
			logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
		}
		if ctx.Err() != nil {
			return allIssues, err
		}
		errs = append(errs, err)
	}

	return allIssues, errors.Join(errs...)
}

// ProcessPath checks path, or every proof script below it when it is a
// directory. Files are checked by at most runtime.NumCPU() workers. A file
// that cannot be checked does not stop the others: its error is joined into
// the returned one. The issues are ordered by file and position. When ctx is
// done the issues gathered so far are returned with the context's error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor func(Engine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasProofExtension(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	files, err := collectProofFiles(path)
	if err != nil {
		return nil, err
	}

	bar := newProgressBar(path, len(files))

	var (
		mu       sync.Mutex
		issues   = []tt.Issue{}
		fileErrs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, fp := range files {
		if gctx.Err() != nil {
			break
		}
		fp := fp
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() { _ = bar.Add(1) }()

			fileIssues, err := processor(engine, fp)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				fileErrs = append(fileErrs, err)
				return nil
			}
			issues = append(issues, fileIssues...)
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = errors.Join(fileErrs...)
	}
	_ = bar.Finish()

	sortIssues(issues)
	return issues, err
}

func ProcessFile(engine Engine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

func collectProofFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && hasProofExtension(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return files, nil
}

func newProgressBar(description string, total int) *progressbar.ProgressBar {
	var w io.Writer = os.Stderr
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func sortIssues(issues []tt.Issue) {
	slices.SortStableFunc(issues, func(a, b tt.Issue) int {
		if c := cmp.Compare(a.Filename, b.Filename); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Start.Line, b.Start.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Step, b.Step)
	})
}

func hasProofExtension(path string) bool {
	return internal.IsProofFile(path)
}
