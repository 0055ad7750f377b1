package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/yaklabco/adocast/internal/logging"
	"github.com/yaklabco/adocast/pkg/asciidoc"
	"github.com/yaklabco/adocast/pkg/environment"
	"github.com/yaklabco/adocast/pkg/fsutil"
	"github.com/yaklabco/adocast/pkg/jsonast"
)

// outputDirMode is the permission mode for directories created under OutDir.
const outputDirMode os.FileMode = 0o755

// Runner converts AsciiDoc files to JSON trees.
type Runner struct {
	Reader *asciidoc.Reader
}

// New creates a Runner using reader.
func New(reader *asciidoc.Reader) *Runner {
	return &Runner{Reader: reader}
}

// Run discovers files under opts.Paths and converts them concurrently.
// Outcomes are ordered by path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	var cache *environment.Cache
	var shared environment.Env = environment.NewIO("")
	if opts.CacheFiles {
		cache = environment.NewCache(shared)
		shared = cache
	}

	logging.FromContext(ctx).Debug("converting files", "files", len(files), "jobs", jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, workDir, shared, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if cache != nil {
		logging.FromContext(ctx).Debug("file cache", "entries", cache.Len(), "reads", cache.FallbackReads())
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	workDir string,
	shared environment.Env,
	opts Options,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.convert(ctx, path, workDir, shared, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// convert reads, parses and optionally writes one file.
func (r *Runner) convert(
	ctx context.Context,
	path string,
	workDir string,
	shared environment.Env,
	opts Options,
) FileOutcome {
	outcome := FileOutcome{Path: path}
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	readerOpts := opts.Reader
	readerOpts.Input = path

	env := &dirEnv{dir: filepath.Dir(path), next: shared}
	doc, err := r.Reader.Parse(ctx, string(content), readerOpts, env)
	if err != nil {
		outcome.Error = fmt.Errorf("%s: %w", path, err)
		return outcome
	}
	outcome.Document = doc
	outcome.Nodes, outcome.ErrorNodes = countNodes(doc)

	if opts.OutDir == "" {
		return outcome
	}

	outcome.Output = OutputPath(opts.OutDir, workDir, path)

	var buf bytes.Buffer
	if err := jsonast.Encode(&buf, doc, jsonast.Options{Compact: opts.Compact}); err != nil {
		outcome.Error = fmt.Errorf("encode %s: %w", path, err)
		return outcome
	}

	if err := os.MkdirAll(filepath.Dir(outcome.Output), outputDirMode); err != nil {
		outcome.Error = fmt.Errorf("create output directory: %w", err)
		return outcome
	}

	written, err := fsutil.WriteFile(ctx, outcome.Output, buf.Bytes(), fsutil.DefaultFileMode)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Written = written

	logger.Debug("converted", logging.FieldOutput, outcome.Output, "written", written)

	return outcome
}

// OutputPath returns where the JSON tree of path is written: its location
// relative to workDir, under outDir, with a .json extension. Files outside
// workDir keep their full absolute path below outDir.
func OutputPath(outDir, workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || !filepath.IsLocal(rel) {
		rel = strings.TrimLeft(path[len(filepath.VolumeName(path)):], `/\`)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".json"
	return filepath.Join(outDir, rel)
}

// dirEnv resolves relative paths against the directory of one document
// before reading through a shared environment, so the shared cache is keyed
// by absolute path.
type dirEnv struct {
	dir  string
	next environment.Env
}

func (e *dirEnv) ReadToString(ctx context.Context, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, path)
	}
	return e.next.ReadToString(ctx, path)
}
