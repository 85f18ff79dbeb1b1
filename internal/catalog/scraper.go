// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// resultFile is the CSV file the scraper tool drops into its output
// directory when a run completes.
const resultFile = "result.csv"

// ScraperTool runs the external Google Scholar scraping tool. The narrow
// interface isolates the subprocess and lets tests substitute a fake that
// writes a canned result file.
type ScraperTool interface {
	// Run invokes the tool for query, walking pages result pages and
	// collecting up to results rows, writing result.csv into outDir.
	// A non-zero exit is returned as an error.
	Run(ctx context.Context, query string, pages, results int, outDir string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// paperBot drives the PyPaperBot module through a Python interpreter.
type paperBot struct {
	python string
	exec   executor
}

var defaultExec = &osExecutor{}

// DetectScraper locates a Python interpreter for the scraping tool, trying
// python3 then python. Returns an error when neither is on PATH.
func DetectScraper() (ScraperTool, error) {
	return detectScraper(defaultExec)
}

func detectScraper(exec executor) (ScraperTool, error) {
	for _, bin := range []string{"python3", "python"} {
		if _, err := exec.LookPath(bin); err == nil {
			return &paperBot{python: bin, exec: exec}, nil
		}
	}
	return nil, fmt.Errorf("no python interpreter available for the scraper tool")
}

// Run invokes PyPaperBot with the query and collection bounds.
func (p *paperBot) Run(ctx context.Context, query string, pages, results int, outDir string) error {
	args := []string{
		"-m", "PyPaperBot",
		fmt.Sprintf("--query=%s", query),
		fmt.Sprintf("--scholar-pages=%d", pages),
		fmt.Sprintf("--scholar-results=%d", results),
		"--restrict=0",
		fmt.Sprintf("--dwn-dir=%s", outDir),
	}
	if err := p.exec.Run(ctx, p.python, args...); err != nil {
		return fmt.Errorf("running PyPaperBot: %w", err)
	}
	return nil
}

// waitForResult polls outDir for a non-empty result.csv, checking once per
// second up to timeout. The tool writes the file after its process tree
// settles, so existence alone is not enough.
func waitForResult(ctx context.Context, outDir string, timeout time.Duration) (string, error) {
	path := filepath.Join(outDir, resultFile)
	deadline := time.Now().Add(timeout)

	for {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("%s not found or empty after %v", resultFile, timeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
}
