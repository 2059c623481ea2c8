package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"strand/internal/diag"
	"strand/internal/lexer"
	"strand/internal/logging"
	"strand/internal/source"
	"strand/internal/token"
)

// FileResult is the outcome for one file of TokenizeDir. Tokens and
// Interner are set only with Options.KeepTokens and not for cache hits.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Tokens   []token.Token
	Bag      *diag.Bag
	Interner *source.Interner
	Summary  Summary
	Cached   bool
	LoadErr  error
}

// DirResult holds every FileResult of a TokenizeDir run in path order.
type DirResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// ListFiles returns the sorted files under dir whose extension is in exts.
func ListFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{".js"}
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// TokenizeDir lexes every matching file under dir in parallel. Each worker
// owns its file's bag and interner, so no owned handle is shared between
// goroutines; keyword and punctuator texts are borrowed read-only.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	logger := logging.FromContext(ctx)

	files, err := ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return &DirResult{FileSet: fileSet}, nil
	}
	emitQueued(opts.Progress, files)

	done := opts.track("load")
	results := make([]FileResult, len(files))
	for i, path := range files {
		results[i].Path = path
		fileID, err := opts.load(fileSet, path)
		if err != nil {
			// Give the error a file to point at.
			fileID = fileSet.AddVirtual(path, nil)
			results[i].LoadErr = err
		}
		results[i].FileID = fileID
	}
	done(fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger.Debug("tokenizing directory", logging.FieldPath, dir, logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	done = opts.track("lex")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lexOne(gctx, fileSet, &results[i], opts)
			return nil
		})
	}
	err = g.Wait()
	done("")
	return &DirResult{FileSet: fileSet, Files: results}, err
}

func lexOne(ctx context.Context, fileSet *source.FileSet, r *FileResult, opts Options) {
	logger := logging.FromContext(ctx)
	start := time.Now()
	r.Bag = diag.NewBag(opts.MaxDiagnostics)

	if r.LoadErr != nil {
		diag.ReportError(&diag.BagReporter{Bag: r.Bag}, diag.IOLoadFileError,
			source.Span{File: r.FileID}, diag.Msgf("failed to load file: %v", r.LoadErr)).Emit()
		r.Summary = Summarize(nil, r.Bag, nil)
		emit(opts.Progress, Event{File: r.Path, Stage: StageLoad, Status: StatusError, Err: r.LoadErr, Diags: r.Bag.Len()})
		return
	}

	file := fileSet.Get(r.FileID)
	useCache := opts.Cache != nil && !opts.KeepTokens
	var key [32]byte
	if useCache {
		key = opts.cacheKey(file.Hash)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			logger.Warn("cache read failed", logging.FieldPath, r.Path, logging.FieldError, err)
			if rmErr := opts.Cache.Remove(key); rmErr != nil {
				logger.Warn("cache evict failed", logging.FieldPath, r.Path, logging.FieldError, rmErr)
			}
		case hit:
			payload.Summary.restore(r.Bag, r.FileID, opts.Factory)
			r.Summary = payload.Summary
			r.Cached = true
			logger.Debug("cache hit", logging.FieldPath, r.Path)
			emit(opts.Progress, Event{
				File: r.Path, Stage: StageCache, Status: statusFor(r.Bag), Elapsed: time.Since(start),
				Tokens: r.Summary.Tokens, Diags: r.Bag.Len(),
			})
			return
		}
	}

	emit(opts.Progress, Event{File: r.Path, Stage: StageLex, Status: StatusWorking})
	interner := source.NewInterner(opts.Factory)
	lx := lexer.New(file, opts.lexerOptions(r.Bag, interner))
	tokens := lx.All()
	lx.Close()
	r.Summary = Summarize(tokens, r.Bag, interner)

	if opts.KeepTokens {
		r.Tokens = tokens
		r.Interner = interner
	} else {
		token.ReleaseAll(tokens)
		interner.Release()
	}

	if useCache {
		if err := opts.Cache.Put(key, &DiskPayload{Path: r.Path, Summary: r.Summary}); err != nil {
			logger.Warn("cache write failed", logging.FieldPath, r.Path, logging.FieldError, err)
		}
	}
	logger.Debug("tokenized", logging.FieldPath, r.Path, logging.FieldTokens, r.Summary.Tokens, logging.FieldDiags, r.Bag.Len())
	emit(opts.Progress, Event{
		File: r.Path, Stage: StageLex, Status: statusFor(r.Bag), Elapsed: time.Since(start),
		Tokens: r.Summary.Tokens, Diags: r.Bag.Len(),
	})
}

func statusFor(bag *diag.Bag) Status {
	if bag.HasErrors() {
		return StatusError
	}
	return StatusDone
}

// Paths lists the files in result order.
func (r *DirResult) Paths() []string {
	out := make([]string, len(r.Files))
	for i := range r.Files {
		out[i] = r.Files[i].Path
	}
	return out
}

// Diagnostics moves every file's diagnostics into one sorted bag holding at
// most maxDiagnostics entries. The per-file bags are empty afterwards.
func (r *DirResult) Diagnostics(maxDiagnostics int) *diag.Bag {
	all := diag.NewBag(maxDiagnostics)
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			all.Merge(r.Files[i].Bag)
		}
	}
	all.Sort()
	all.Truncate(maxDiagnostics)
	return all
}

// Release drops all tokens, diagnostics and interners and unmaps files.
func (r *DirResult) Release() error {
	for i := range r.Files {
		f := &r.Files[i]
		token.ReleaseAll(f.Tokens)
		f.Tokens = nil
		if f.Bag != nil {
			f.Bag.Release()
		}
		if f.Interner != nil {
			f.Interner.Release()
		}
	}
	return r.FileSet.Close()
}
