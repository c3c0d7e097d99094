package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tidal/internal/buildpipeline"
	"tidal/internal/diag"
	"tidal/internal/source"
	"tidal/internal/transpile"
)

// BuildOptions tunes one build run.
type BuildOptions struct {
	// MaxDiagnostics caps the per-file diagnostic bags.
	MaxDiagnostics int
	// Jobs limits front-end parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// EmitMeta writes one artifact cache record per compiled unit.
	EmitMeta bool
	// Progress receives stage events; may be nil.
	Progress buildpipeline.ProgressSink
}

// BuildResult is what a build run produced, successful or not.
type BuildResult struct {
	FileSet *source.FileSet
	// Bags holds per-file diagnostics, indexed like the manifest sources.
	Bags []*diag.Bag
	// Units maps function name to its compiled unit. Empty when the build
	// failed before or during compilation.
	Units map[string]*transpile.CompilationUnit
	// OutPath is the module file written, empty on failure.
	OutPath string
	Timings buildpipeline.Timings
}

// HasErrors reports whether any file's bag contains an error.
func (r *BuildResult) HasErrors() bool {
	for _, b := range r.Bags {
		if b != nil && b.HasErrors() {
			return true
		}
	}
	return false
}

// ErrBuildFailed marks a build stopped by source diagnostics; the details
// live in BuildResult.Bags.
var ErrBuildFailed = errors.New("build failed")

// Build runs the whole pipeline for a manifest: parse every source in
// parallel, compile every top-level function through one session, write
// the output module. Compilation is serial by design; only the front end
// fans out.
func Build(ctx context.Context, m *Manifest, opts BuildOptions) (*BuildResult, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	res := &BuildResult{FileSet: source.NewFileSet()}
	paths := m.SourcePaths()
	display := m.Build.Sources

	buildpipeline.EmitFiles(opts.Progress, display, buildpipeline.StageParse, buildpipeline.StatusQueued, nil)

	parseStart := time.Now()
	buildpipeline.EmitFiles(opts.Progress, display, buildpipeline.StageParse, buildpipeline.StatusWorking, nil)
	files, err := ParseFiles(ctx, res.FileSet, paths, opts.MaxDiagnostics, opts.Jobs)
	if err != nil {
		buildpipeline.EmitFiles(opts.Progress, display, buildpipeline.StageParse, buildpipeline.StatusError, err)
		return res, err
	}
	res.Bags = make([]*diag.Bag, len(files))
	for i, f := range files {
		res.Bags[i] = f.Bag
	}
	res.Timings.Set(buildpipeline.StageParse, time.Since(parseStart))

	if res.HasErrors() {
		for i, f := range files {
			status := buildpipeline.StatusDone
			if f.Bag.HasErrors() {
				status = buildpipeline.StatusError
			}
			buildpipeline.Emit(opts.Progress, buildpipeline.Event{
				File: display[i], Stage: buildpipeline.StageParse, Status: status,
			})
		}
		return res, ErrBuildFailed
	}
	buildpipeline.EmitFiles(opts.Progress, display, buildpipeline.StageParse, buildpipeline.StatusDone, nil)

	funcs, dups := CollectFuncs(files)
	if len(dups) > 0 {
		return res, fmt.Errorf("duplicate function definitions: %v", dups)
	}
	resolve, err := m.Resolver(funcs)
	if err != nil {
		return res, err
	}

	compileStart := time.Now()
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking})

	session := transpile.NewSession()
	units := make(map[string]*transpile.CompilationUnit, len(funcs))
	var roots []*transpile.CompilationUnit
	for _, f := range files {
		for _, fn := range f.Module.Funcs {
			u, cerr := session.Compile(fn, resolve)
			if cerr != nil {
				var te *transpile.Error
				if errors.As(cerr, &te) {
					routeDiagnostic(res, files, te)
					buildpipeline.Emit(opts.Progress, buildpipeline.Event{
						Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusError, Err: cerr,
					})
					return res, ErrBuildFailed
				}
				return res, cerr
			}
			units[fn.Name] = u
			roots = append(roots, u)
		}
	}
	res.Units = units
	res.Timings.Set(buildpipeline.StageCompile, time.Since(compileStart))
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusDone})

	writeStart := time.Now()
	closure := transpile.NewClosure(roots...)
	var forced []*transpile.ImportDescriptor
	for _, spec := range m.SideEffectImports() {
		forced = append(forced, session.RequireImport(spec))
	}
	closure.Include(forced...)

	rootIDs := make(map[string]bool, len(roots))
	for _, u := range roots {
		rootIDs[u.LocalID] = true
	}
	text := WriteModule(closure, rootIDs)

	out := m.OutPath()
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return res, err
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusError, Err: err})
		return res, err
	}
	res.OutPath = out
	res.Timings.Set(buildpipeline.StageWrite, time.Since(writeStart))
	buildpipeline.Emit(opts.Progress, buildpipeline.Event{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})

	if opts.EmitMeta {
		if err := writeArtifacts(m.Package.Name, closure.Units); err != nil {
			return res, err
		}
	}
	return res, nil
}

// routeDiagnostic files a transpile error into the bag of the file its
// span belongs to, falling back to the first bag.
func routeDiagnostic(res *BuildResult, files []FileResult, te *transpile.Error) {
	for i, f := range files {
		if f.FileID == te.Span.File {
			res.Bags[i].Add(te.Diagnostic())
			return
		}
	}
	if len(res.Bags) > 0 {
		res.Bags[0].Add(te.Diagnostic())
	}
}

func writeArtifacts(app string, units []*transpile.CompilationUnit) error {
	cache, err := OpenArtifactCache(app)
	if err != nil {
		return err
	}
	for _, u := range units {
		names := make([]string, 0, len(u.Deps))
		for name := range u.Deps {
			names = append(names, name)
		}
		sort.Strings(names)
		payload := &ArtifactPayload{
			Schema:      artifactSchemaVersion,
			Name:        u.Name,
			ParamCount:  u.ParamCount(),
			Fingerprint: u.Fingerprint(),
			Code:        u.Code(),
			DepNames:    names,
		}
		if err := cache.Put(payload); err != nil {
			return err
		}
	}
	return nil
}
