package analyzer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dirtally/internal/config"
	"dirtally/internal/index"
	"dirtally/internal/logging"
	"dirtally/internal/render"
	"dirtally/internal/tree"
	"dirtally/internal/verify"
	"dirtally/internal/walker"
)

// ErrInvalidDirectory is returned for a missing, nonexistent or
// non-directory analysis root.
var ErrInvalidDirectory = errors.New("invalid or non-existent directory path")

const (
	AnalysisFile         = "analysis_result.json"
	FilteredAnalysisFile = "filtered_analysis_result.json"
	ErrorReportFile      = "error_analysis_report.md"
	ASCIITreeFile        = "ascii_tree.txt"
)

type Analyzer struct {
	cfg    *config.Config
	walker *walker.Walker
	log    *logging.Logger
}

func New(cfg *config.Config, w *walker.Walker, log *logging.Logger) *Analyzer {
	if log == nil {
		log = logging.Nop()
	}
	return &Analyzer{cfg: cfg, walker: w, log: log}
}

type Result struct {
	Snapshot     *tree.Snapshot
	Filtered     *tree.Snapshot
	Verification *verify.Result

	// Written lists the artefacts in the order they were saved.
	Written []string
}

// Tree returns the unfiltered tree of dir with every entry indexed.
func (a *Analyzer) Tree(dir string) (tree.Tree, error) {
	absDir, err := validateDirectory(dir)
	if err != nil {
		return nil, err
	}
	return a.walker.Walk(absDir, index.IndexState{}, false)
}

// Run traverses dir twice, once unfiltered and once without unindexed
// entries, traverses every configured module, verifies the filtered
// snapshot and writes all artefacts to the output directory.
//
// Artefacts are written only after every traversal has finished so that an
// output directory inside dir does not change what is being measured.
func (a *Analyzer) Run(dir string) (*Result, error) {
	absDir, err := validateDirectory(dir)
	if err != nil {
		return nil, err
	}

	state, err := index.LoadState(a.cfg.IndexFile)
	if err != nil {
		return nil, err
	}
	modulePaths, err := index.LoadModules(a.cfg.ModulesFile)
	if err != nil {
		return nil, err
	}
	a.log.Infof("Analyzing %s (%d index entries, %d modules)", absDir, len(state), len(modulePaths))

	created := time.Now().UTC()

	unfiltered, err := a.snapshot(absDir, state, false, created)
	if err != nil {
		return nil, err
	}
	filtered, err := a.snapshot(absDir, state, true, created)
	if err != nil {
		return nil, err
	}

	filtered.Modules = make(map[string]tree.Tree, len(modulePaths))
	moduleRoots := make(map[string]bool, len(modulePaths))
	for _, modulePath := range modulePaths {
		modTree, err := a.walker.Walk(modulePath, state, false)
		if err != nil {
			a.log.Errorf("Skipping module %s: %v", modulePath, err)
			continue
		}
		filtered.Modules[modulePath] = modTree
		if abs, err := filepath.Abs(modulePath); err == nil {
			moduleRoots[abs] = true
		}
	}
	markModules(unfiltered.Tree, moduleRoots)
	markModules(filtered.Tree, moduleRoots)

	verification := verify.New(a.walker, state, a.log).Verify(filtered)
	if verification.HasDiscrepancies() {
		a.log.Warningf("Verification found %d discrepancies", len(verification.Discrepancies))
	}

	result := &Result{Snapshot: unfiltered, Filtered: filtered, Verification: verification}
	if err := a.writeArtefacts(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Analyzer) snapshot(absDir string, state index.IndexState, filtered bool, created time.Time) (*tree.Snapshot, error) {
	t, err := a.walker.Walk(absDir, state, filtered)
	if err != nil {
		return nil, fmt.Errorf("failed to traverse %s: %w", absDir, err)
	}
	digest, err := tree.Digest(t)
	if err != nil {
		return nil, fmt.Errorf("failed to compute digest: %w", err)
	}
	return &tree.Snapshot{
		Generator: tree.Generator,
		Created:   created,
		Root:      absDir,
		Filtered:  filtered,
		Digest:    digest,
		Tree:      t,
	}, nil
}

func (a *Analyzer) writeArtefacts(result *Result) error {
	outDir := a.cfg.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	save := func(name string, s *tree.Snapshot) error {
		p := a.cfg.OutputPath(name)
		if err := tree.Save(s, p); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
		result.Written = append(result.Written, p)
		return nil
	}
	write := func(name, content string) error {
		p := a.cfg.OutputPath(name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		result.Written = append(result.Written, p)
		return nil
	}

	if err := save(AnalysisFile, result.Snapshot); err != nil {
		return err
	}
	if err := save(FilteredAnalysisFile, result.Filtered); err != nil {
		return err
	}
	if err := write(ErrorReportFile, verify.FormatReport(result.Verification)); err != nil {
		return err
	}

	renderer := &render.Renderer{Warn: func(name string) {
		a.log.Warningf("'type' key not found for item %s", name)
	}}
	if err := write(ASCIITreeFile, renderer.Render(result.Filtered.Tree)); err != nil {
		return err
	}

	a.log.Infof("Wrote %d artefacts to %s", len(result.Written), outDir)
	return nil
}

// markModules flags every directory whose absolute path is a module root.
func markModules(t tree.Tree, roots map[string]bool) {
	if len(roots) == 0 {
		return
	}
	t.Walk(func(_ string, e tree.Entry) {
		if dir, ok := e.(*tree.DirectoryEntry); ok && roots[dir.AbsolutePath] {
			dir.IsModule = true
		}
	})
}

func validateDirectory(dir string) (string, error) {
	if dir == "" {
		return "", ErrInvalidDirectory
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDirectory, err)
	}
	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInvalidDirectory, dir)
	}
	return absDir, nil
}
