package analysis

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/mschleck/lcps-go/internal/lightcurve"
)

// DirectoryAnalysis scans all light curve files in the configured input
// directory. Files are distributed over a bounded worker pool, each file's
// scan is independent and shares no mutable state with any other. With
// watch mode enabled the directory is rescanned until interrupted.
func (a *Analyzer) DirectoryAnalysis() error {
	watchDir := a.Settings.Input.Path

	info, err := os.Stat(watchDir)
	if err != nil {
		return fmt.Errorf("error accessing directory %s: %w", watchDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("the path %s is not a directory", watchDir)
	}

	if a.Settings.Output.File.Path != "" {
		if err := os.MkdirAll(a.Settings.Output.File.Path, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Tracks files already scanned during this run, only touched by the
	// dispatching goroutine.
	processedFiles := make(map[string]bool)

	a.log.Info("Performing initial directory scan", "directory", watchDir)
	if err := a.scanDirectory(watchDir, processedFiles); err != nil {
		return err
	}

	if !a.Settings.Input.Watch {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		a.log.Info("Received signal, stopping directory watch", "signal", sig.String())
		cancel()
	}()

	a.log.Info("Starting directory watch", "directory", watchDir)
	watchStartTime := time.Now()

	for {
		// Random sleep between 30-45 seconds keeps concurrent instances
		// from rescanning in lockstep.
		timer := time.NewTimer(time.Duration(30+rand.Intn(15)) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			a.log.Info("Directory watch stopped", "elapsed", time.Since(watchStartTime).Round(time.Second))
			return nil
		case <-timer.C:
			if err := a.scanDirectory(watchDir, processedFiles); err != nil {
				// Scan errors in watch mode are logged, not fatal.
				a.log.Error("Directory scan failed", "error", err)
			}
		}
	}
}

// scanDirectory walks the directory once and fans the unprocessed light
// curve files out to the worker pool.
func (a *Analyzer) scanDirectory(watchDir string, processedFiles map[string]bool) error {
	files, err := a.collectFiles(watchDir)
	if err != nil {
		return err
	}

	pending := make([]string, 0, len(files))
	for _, path := range files {
		if !processedFiles[path] && !a.hasExistingOutput(path) {
			pending = append(pending, path)
		}
	}
	if len(pending) == 0 {
		a.log.Info("Directory scan completed, no new files to analyze")
		return nil
	}

	startTime := time.Now()
	numWorkers := a.numWorkers()
	a.log.Info("Scanning light curves",
		"files", len(pending),
		"workers", numWorkers)

	pathChan := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	filesAnalyzed, totalCandidates := 0, 0

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range pathChan {
				candidates, err := a.processFile(path)
				mu.Lock()
				if err != nil {
					a.log.Error("Failed to analyze file", "file", filepath.Base(path), "error", err)
				} else {
					filesAnalyzed++
					totalCandidates += candidates
				}
				mu.Unlock()
			}
		}()
	}

	for _, path := range pending {
		processedFiles[path] = true
		pathChan <- path
	}
	close(pathChan)
	wg.Wait()

	a.log.Info("Directory scan completed",
		"files_analyzed", filesAnalyzed,
		"candidates", totalCandidates,
		"elapsed", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// collectFiles gathers the supported light curve files under watchDir,
// sorted for deterministic scan order.
func (a *Analyzer) collectFiles(watchDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(watchDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !a.Settings.Input.Recursive && path != watchDir {
				return filepath.SkipDir
			}
			return nil
		}
		if lightcurve.SupportedFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", watchDir, err)
	}
	sort.Strings(files)
	return files, nil
}

// hasExistingOutput reports whether a previous run already produced result
// files for path, so watch mode does not rescan finished targets.
func (a *Analyzer) hasExistingOutput(path string) bool {
	if !a.Settings.Output.File.Enabled || a.Settings.Output.File.Path == "" {
		return false
	}
	base := filepath.Join(a.Settings.Output.File.Path, filepath.Base(path))
	candidates := []string{base + ".csv", base + ".txt"}
	if ext := filepath.Ext(base); ext == ".csv" || ext == ".txt" {
		// The writers do not double up the suffix.
		candidates = append(candidates, base)
	}
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}

// processFile guards one file scan with a .processing lock file so that
// concurrent scanner instances sharing an output directory do not collide.
func (a *Analyzer) processFile(path string) (int, error) {
	lockFile := a.lockFilePath(path)
	if lockFile != "" {
		f, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o666)
		if err != nil {
			// Another instance is processing this file.
			return 0, nil
		}
		f.Close()
		defer os.Remove(lockFile)
	}
	return a.FileAnalysis(path)
}

func (a *Analyzer) lockFilePath(path string) string {
	if a.Settings.Output.File.Path == "" {
		return ""
	}
	return filepath.Join(a.Settings.Output.File.Path, filepath.Base(path)+".processing")
}
