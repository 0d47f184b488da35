// Package loader discovers semantic model folders on disk and builds their
// relationship graphs. File I/O lives here, at the edge; the parsing and
// graph packages stay pure.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pbitools/semgraph/pkg/model"
	"github.com/pbitools/semgraph/pkg/tmdl"
)

// relationshipsFile is the definition file holding a model's relationships,
// relative to its .SemanticModel folder.
const relationshipsFile = "relationships.tmdl"

// modelFolderSuffix marks a semantic model folder.
const modelFolderSuffix = ".SemanticModel"

// ModelFile is one discovered relationships.tmdl file.
type ModelFile struct {
	// Name is the model name: the folder name minus the .SemanticModel suffix.
	Name string
	// Path is the absolute path to the relationships file.
	Path string
}

// Warning is a recoverable problem tied to one model, surfaced to the caller
// instead of aborting the run.
type Warning struct {
	Model string
	Line  int
	Err   error
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", w.Model, w.Line, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Model, w.Err)
}

// Result holds everything one discovery pass produced.
type Result struct {
	Graphs   []*model.Graph
	Warnings []Warning
}

// Discover walks root for <Model>.SemanticModel/definition/relationships.tmdl
// files. Results are sorted by model name.
func Discover(root string) ([]ModelFile, error) {
	var files []ModelFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != relationshipsFile {
			return nil
		}

		// Expect <Model>.SemanticModel/definition/relationships.tmdl.
		defDir := filepath.Dir(path)
		modelDir := filepath.Dir(defDir)
		if filepath.Base(defDir) != "definition" || !strings.HasSuffix(filepath.Base(modelDir), modelFolderSuffix) {
			return nil
		}

		files = append(files, ModelFile{
			Name: strings.TrimSuffix(filepath.Base(modelDir), modelFolderSuffix),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Load discovers and builds every model under root. Models are independent,
// so graphs are built in parallel. Unreadable files and malformed blocks
// become warnings; an empty relationships file still yields a (empty) graph.
func Load(ctx context.Context, root string, logger *slog.Logger) (*Result, error) {
	files, err := Discover(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered semantic models", "root", root, "count", len(files))

	var (
		mu     sync.Mutex
		result Result
	)

	eg, _ := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		eg.Go(func() error {
			g, warnings := loadOne(f)

			mu.Lock()
			defer mu.Unlock()
			result.Warnings = append(result.Warnings, warnings...)
			if g != nil {
				result.Graphs = append(result.Graphs, g)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Graphs, func(i, j int) bool {
		return result.Graphs[i].Name() < result.Graphs[j].Name()
	})
	for _, g := range result.Graphs {
		s := g.Stats()
		logger.Debug("built model graph",
			"model", g.Name(), "tables", s.Tables, "relationships", s.Relationships)
	}
	return &result, nil
}

// loadOne reads and builds a single model. A read failure drops the model
// with a warning rather than failing the whole pass.
func loadOne(f ModelFile) (*model.Graph, []Warning) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, []Warning{{Model: f.Name, Err: err}}
	}

	rels, parseWarnings := tmdl.ParseFile(string(content))

	warnings := make([]Warning, 0, len(parseWarnings))
	for _, w := range parseWarnings {
		warnings = append(warnings, Warning{Model: f.Name, Line: w.Line, Err: w.Err})
	}
	return model.Build(f.Name, rels), warnings
}
