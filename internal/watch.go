package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

// settle is how long a write must be quiet before the file is checked again,
// so that editors saving in several writes trigger a single run.
const settle = 100 * time.Millisecond

var (
	ErrAlreadyWatching = errors.New("already watching")
	ErrNotWatching     = errors.New("not watching")
)

// ProofSuffixes lists the file name suffixes of proof scripts.
var ProofSuffixes = []string{".proof.yaml", ".proof.yml"}

// IsProofFile reports whether name looks like a proof script.
func IsProofFile(name string) bool {
	for _, suffix := range ProofSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// StartWatching checks proof scripts under dirs again every time they are
// written and hands the result to report. A nil report logs the issues.
func (e *Engine) StartWatching(dirs []string, report func(filename string, issues []tt.Issue)) error {
	if !e.isWatching.CompareAndSwap(false, true) {
		return ErrAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		e.isWatching.Store(false)
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			e.isWatching.Store(false)
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.onReport = report
	if e.onReport == nil {
		e.onReport = e.reportIssues
	}
	go e.watchLoop(watcher)
	return nil
}

// StopWatching stops the watcher started by StartWatching.
func (e *Engine) StopWatching() error {
	if !e.isWatching.CompareAndSwap(true, false) {
		return ErrNotWatching
	}
	return e.watcher.Close()
}

func (e *Engine) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			e.log().Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !IsProofFile(event.Name) {
		return
	}

	time.Sleep(settle)
	issues, err := e.Run(event.Name)
	if err != nil {
		e.log().Error("error checking proof", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.onReport(event.Name, issues)
}

func (e *Engine) reportIssues(filename string, issues []tt.Issue) {
	if len(issues) == 0 {
		e.log().Info("no issues found", zap.String("file", filename))
		return
	}

	e.log().Info("issues found", zap.String("file", filename), zap.Int("count", len(issues)))
	for _, issue := range issues {
		e.log().Info("issue",
			zap.String("rule", issue.Rule),
			zap.Int("step", issue.Step),
			zap.String("message", issue.Message),
		)
	}
}
