package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"strand/internal/config"
	"strand/internal/diag"
	"strand/internal/driver"
	"strand/internal/logging"
	"strand/internal/observ"
	"strand/internal/prof"
	"strand/internal/rcstr"
)

// app holds state resolved once per invocation by the root pre-run hook.
type app struct {
	cfg       config.Config
	logger    *log.Logger
	timer     *observ.Timer
	prevAlloc rcstr.Allocator
	profile   *prof.Session
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	level, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if cfgPath != "" {
		a.cfg, err = config.Load(cfgPath)
	} else {
		a.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	if err := a.cfg.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if flags.Changed("max-diagnostics") || a.cfg.Path == "" {
		if a.cfg.Diagnostics.Max, err = flags.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("min-severity") {
		if a.cfg.Diagnostics.MinSeverity, err = flags.GetString("min-severity"); err != nil {
			return fmt.Errorf("failed to get min-severity flag: %w", err)
		}
		if _, err := diag.ParseSeverity(a.cfg.Diagnostics.MinSeverity); err != nil {
			return err
		}
	}
	a.logger.Debug("config resolved", logging.FieldConfig, a.cfg.Path, logging.FieldAlloc, a.cfg.Allocator.Kind)

	a.prevAlloc = rcstr.SetDefaultAllocator(a.cfg.NewAllocator())

	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		a.timer = observ.NewTimer()
		if counting, ok := rcstr.DefaultAllocator().(*rcstr.CountingAllocator); ok {
			a.timer.WithAllocator(counting)
		}
	}

	var profOpts prof.Options
	if profOpts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if profOpts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if profOpts.Trace, err = flags.GetString("trace-out"); err != nil {
		return fmt.Errorf("failed to get trace-out flag: %w", err)
	}
	if profOpts.Enabled() {
		if a.profile, err = prof.Start(profOpts); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) teardown(stderr io.Writer) {
	if err := a.profile.Stop(); err != nil {
		fmt.Fprintln(stderr, "profile:", err)
	}
	a.profile = nil
	if a.timer != nil {
		fmt.Fprint(stderr, a.timer.Summary())
	}
	if a.prevAlloc != nil {
		rcstr.SetDefaultAllocator(a.prevAlloc)
		a.prevAlloc = nil
	}
}

// driverOptions maps the resolved config onto driver options.
func (a *app) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics:  a.cfg.Diagnostics.Max,
		Jobs:            a.cfg.Driver.Jobs,
		Extensions:      a.cfg.Driver.Extensions,
		NormalizeIdents: a.cfg.Lexer.NormalizeIdents,
		MaxTokenLength:  a.cfg.Lexer.MaxTokenLength,
		MinSeverity:     a.cfg.MinSeverity(),
		Timer:           a.timer,
	}
}
