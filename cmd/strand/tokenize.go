package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"strand/internal/diagfmt"
	"strand/internal/driver"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file>",
		Short: "Tokenize a source file",
		Long:  "Tokenize a source file and print its tokens with storage mode and position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTokenize(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("mmap", false, "map the file read-only instead of reading it")
	return cmd
}

func (a *app) runTokenize(cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	mapped, err := cmd.Flags().GetBool("mmap")
	if err != nil {
		return fmt.Errorf("failed to get mmap flag: %w", err)
	}

	opts := a.driverOptions()
	opts.Mapped = mapped
	res, err := driver.Tokenize(cmd.Context(), path, opts)
	if err != nil {
		return err
	}
	defer res.Release()

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, res.Tokens, res.FileSet)
	} else {
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
	}
	if err != nil {
		return err
	}

	if res.Bag.Len() > 0 {
		colored, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:    colored,
			Context:  1,
			PathMode: diagfmt.ParsePathMode(a.cfg.Diagnostics.PathMode),
		})
	}
	if res.Bag.HasErrors() {
		return exitCodeError{code: 1}
	}
	return nil
}
