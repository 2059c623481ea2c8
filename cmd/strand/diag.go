package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"strand/internal/diag"
	"strand/internal/diagfmt"
	"strand/internal/driver"
	"strand/internal/logging"
	"strand/internal/source"
	"strand/internal/version"
)

func newDiagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file|dir>",
		Short: "Report lexical diagnostics",
		Long:  "Lex a file or every matching file under a directory and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiag(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=config or GOMAXPROCS)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse cached results for unchanged files")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	cmd.Flags().String("path-mode", "", "path display (auto|absolute|relative|basename)")
	cmd.Flags().Bool("mmap", false, "map files read-only instead of reading them")
	return cmd
}

type diagFlags struct {
	format    string
	jobs      int
	ui        uiMode
	cache     bool
	withNotes bool
	pathMode  string
	mapped    bool
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var f diagFlags
	var err error
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	f.format = strings.ToLower(f.format)
	switch f.format {
	case "pretty", "json", "sarif":
	default:
		return f, fmt.Errorf("unsupported format %q (must be pretty, json or sarif)", f.format)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.pathMode, err = cmd.Flags().GetString("path-mode"); err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if f.mapped, err = cmd.Flags().GetBool("mmap"); err != nil {
		return f, fmt.Errorf("failed to get mmap flag: %w", err)
	}
	return f, nil
}

func (a *app) openCache() (*driver.DiskCache, error) {
	if a.cfg.Cache.Dir != "" {
		return driver.OpenDiskCacheAt(a.cfg.Cache.Dir)
	}
	return driver.OpenDiskCache("strand")
}

func (a *app) runDiag(cmd *cobra.Command, path string) error {
	flags, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	opts := a.driverOptions()
	opts.Mapped = flags.mapped
	if flags.jobs > 0 {
		opts.Jobs = flags.jobs
	}
	if flags.cache || a.cfg.Cache.Enabled {
		cache, err := a.openCache()
		if err != nil {
			// A broken cache directory only costs speed.
			logger.Warn("cache disabled", logging.FieldError, err)
		} else {
			opts.Cache = cache
			logger.Debug("cache enabled", logging.FieldPath, cache.Dir())
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var (
		bag     *diag.Bag
		fileSet *source.FileSet
		release func() error
	)
	if info.IsDir() {
		res, err := a.diagDir(cmd, path, flags, opts)
		if res != nil {
			release = res.Release
		}
		if err != nil {
			if release != nil {
				_ = release()
			}
			return err
		}
		bag = res.Diagnostics(a.cfg.Diagnostics.Max)
		fileSet = res.FileSet
	} else {
		res, err := driver.Tokenize(ctx, path, opts)
		if err != nil {
			return err
		}
		release = res.Release
		bag = res.Bag
		fileSet = res.FileSet
	}
	defer func() {
		if info.IsDir() {
			bag.Release()
		}
		if err := release(); err != nil {
			logger.Warn("release failed", logging.FieldError, err)
		}
	}()

	if err := a.renderDiagnostics(cmd, bag, fileSet, flags); err != nil {
		return err
	}
	if bag.HasErrors() {
		return exitCodeError{code: 1}
	}
	return nil
}

func (a *app) diagDir(cmd *cobra.Command, dir string, flags diagFlags, opts driver.Options) (*driver.DirResult, error) {
	if !shouldUseTUI(flags.ui, flags.format) {
		return driver.TokenizeDir(cmd.Context(), dir, opts)
	}
	files, err := driver.ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return driver.TokenizeDir(cmd.Context(), dir, opts)
	}
	res, err := runDirWithUI(cmd.Context(), "Lexing "+dir, files, dir, opts)
	if err != nil && errors.Is(err, cmd.Context().Err()) {
		return res, fmt.Errorf("interrupted: %w", err)
	}
	return res, err
}

func (a *app) renderDiagnostics(cmd *cobra.Command, bag *diag.Bag, fileSet *source.FileSet, flags diagFlags) error {
	out := cmd.OutOrStdout()
	pathModeValue := flags.pathMode
	if pathModeValue == "" {
		pathModeValue = a.cfg.Diagnostics.PathMode
	}
	pathMode := diagfmt.ParsePathMode(pathModeValue)

	switch flags.format {
	case "json":
		return diagfmt.JSON(out, bag, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              a.cfg.Diagnostics.Max,
			IncludeNotes:     flags.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, fileSet, diagfmt.SarifRunMeta{
			ToolName:       "strand",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	default:
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, bag, fileSet, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: flags.withNotes,
		})
		if bag.Len() == 0 {
			fmt.Fprintln(out, "no diagnostics")
		}
		return nil
	}
}
