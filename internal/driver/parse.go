package driver

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"tidal/internal/ast"
	"tidal/internal/diag"
	"tidal/internal/parser"
	"tidal/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Module  *ast.Module
	Bag     *diag.Bag
}

// Parse parses a single file into a module.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	mod := parser.Parse(file, diag.BagReporter{Bag: bag})

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Module:  mod,
		Bag:     bag,
	}, nil
}

// FileResult is one file's front-end output within a multi-file build.
type FileResult struct {
	Path   string
	FileID source.FileID
	Module *ast.Module
	Bag    *diag.Bag
}

// ParseFiles loads every path into one FileSet and parses the files in
// parallel. File load errors abort the build; syntax errors do not — they
// land in each file's bag for the caller to inspect. Results come back in
// input order regardless of completion order.
func ParseFiles(ctx context.Context, fs *source.FileSet, paths []string, maxDiagnostics, jobs int) ([]FileResult, error) {
	fileIDs := make([]source.FileID, len(paths))
	for i, path := range paths {
		id, err := fs.Load(path)
		if err != nil {
			return nil, err
		}
		fileIDs[i] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Slots are per-goroutine, no mutex needed.
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(paths), 1)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			file := fs.Get(fileIDs[i])
			bag := diag.NewBag(maxDiagnostics)
			mod := parser.Parse(file, diag.BagReporter{Bag: bag})
			results[i] = FileResult{
				Path:   path,
				FileID: fileIDs[i],
				Module: mod,
				Bag:    bag,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FuncEntry ties a top-level function definition to the file it came from.
type FuncEntry struct {
	Def  *ast.FuncDef
	Path string
}

// CollectFuncs indexes the top-level functions of all parsed files by
// name. Duplicate definitions keep the first occurrence and report the
// rest into dups, sorted by name for determinism.
func CollectFuncs(results []FileResult) (map[string]*FuncEntry, []string) {
	funcs := make(map[string]*FuncEntry)
	var dups []string
	for _, r := range results {
		if r.Module == nil {
			continue
		}
		for _, fn := range r.Module.Funcs {
			if _, ok := funcs[fn.Name]; ok {
				dups = append(dups, fn.Name)
				continue
			}
			funcs[fn.Name] = &FuncEntry{Def: fn, Path: r.Path}
		}
	}
	sort.Strings(dups)
	return funcs, dups
}
