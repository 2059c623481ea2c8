package driver

import (
	"context"
	"fmt"
	"time"

	"strand/internal/diag"
	"strand/internal/lexer"
	"strand/internal/logging"
	"strand/internal/source"
	"strand/internal/token"
)

// TokenizeResult owns everything produced for one file. Release it when
// done; token texts borrowed from a mapped file die with the FileSet.
type TokenizeResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Tokens   []token.Token
	Bag      *diag.Bag
	Interner *source.Interner
}

// Tokenize loads and lexes a single file.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	logger := logging.FromContext(ctx)

	fs := source.NewFileSet()
	done := opts.track("load")
	fileID, err := opts.load(fs, path)
	done(path)
	if err != nil {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		_ = fs.Close()
		return nil, err
	}

	file := fs.Get(fileID)
	start := time.Now()
	emit(opts.Progress, Event{File: path, Stage: StageLex, Status: StatusWorking})

	bag := diag.NewBag(opts.MaxDiagnostics)
	interner := source.NewInterner(opts.Factory)
	done = opts.track("lex")
	lx := lexer.New(file, opts.lexerOptions(bag, interner))
	tokens := lx.All()
	lx.Close()
	done(fmt.Sprintf("%d tokens", len(tokens)))

	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{
		File: path, Stage: StageLex, Status: status, Elapsed: time.Since(start),
		Tokens: max(len(tokens)-1, 0), Diags: bag.Len(),
	})
	logger.Debug("tokenized", logging.FieldPath, path, logging.FieldTokens, len(tokens),
		logging.FieldDiags, bag.Len(), "mapped", file.Flags&source.FileMapped != 0)

	return &TokenizeResult{
		FileSet:  fs,
		File:     file,
		Tokens:   tokens,
		Bag:      bag,
		Interner: interner,
	}, nil
}

// Summary summarizes the result without releasing it.
func (r *TokenizeResult) Summary() Summary {
	return Summarize(r.Tokens, r.Bag, r.Interner)
}

// Release drops every token, diagnostic and interned string, then unmaps the
// file. The result must not be used afterwards.
func (r *TokenizeResult) Release() error {
	token.ReleaseAll(r.Tokens)
	r.Tokens = nil
	r.Bag.Release()
	r.Interner.Release()
	return r.FileSet.Close()
}
