package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"strand/internal/driver"
	"strand/internal/rcstr"
)

// statsReport describes string storage for one lexed file.
type statsReport struct {
	Path          string      `json:"path"`
	Tokens        int         `json:"tokens"`
	Idents        int         `json:"idents"`
	UniqueIdents  int         `json:"unique_idents"`
	Literals      int         `json:"literals"`
	OwnedTexts    int         `json:"owned_texts"`
	BorrowedTexts int         `json:"borrowed_texts"`
	InternHits    int         `json:"intern_hits"`
	InternLookups int         `json:"intern_lookups"`
	Diagnostics   int         `json:"diagnostics"`
	Lexed         rcstr.Stats `json:"lexed"`
	Released      rcstr.Stats `json:"released"`
}

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [flags] <file>",
		Short: "Show string allocation statistics for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			format = strings.ToLower(format)
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
			report, err := a.collectStats(cmd, args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			renderStatsPretty(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

// collectStats lexes path with every string allocation routed through a
// CountingAllocator, then releases the result and samples again.
func (a *app) collectStats(cmd *cobra.Command, path string) (statsReport, error) {
	counting := rcstr.NewCountingAllocator(rcstr.DefaultAllocator())
	prev := rcstr.SetDefaultAllocator(counting)
	defer rcstr.SetDefaultAllocator(prev)

	opts := a.driverOptions()
	opts.Factory = rcstr.NewFactory(counting)
	res, err := driver.Tokenize(cmd.Context(), path, opts)
	if err != nil {
		return statsReport{}, err
	}
	sum := res.Summary()
	hits, lookups := res.Interner.Hits()
	report := statsReport{
		Path:          path,
		Tokens:        sum.Tokens,
		Idents:        sum.Idents,
		UniqueIdents:  sum.UniqueIdents,
		Literals:      sum.Literals,
		OwnedTexts:    sum.OwnedTexts,
		BorrowedTexts: sum.BorrowedTexts,
		InternHits:    hits,
		InternLookups: lookups,
		Diagnostics:   len(sum.Diagnostics),
		Lexed:         counting.Stats(),
	}
	if err := res.Release(); err != nil {
		return statsReport{}, err
	}
	report.Released = counting.Stats()
	return report, nil
}

func renderStatsPretty(out io.Writer, r statsReport) {
	fmt.Fprintf(out, "file:        %s\n", r.Path)
	fmt.Fprintf(out, "tokens:      %d (idents %d, unique %d, literals %d)\n", r.Tokens, r.Idents, r.UniqueIdents, r.Literals)
	fmt.Fprintf(out, "texts:       owned %d, borrowed %d\n", r.OwnedTexts, r.BorrowedTexts)
	fmt.Fprintf(out, "interner:    %d hits / %d lookups\n", r.InternHits, r.InternLookups)
	fmt.Fprintf(out, "diagnostics: %d\n", r.Diagnostics)
	fmt.Fprintf(out, "lexed:       allocs %d, frees %d, live %d blocks (%d bytes)\n",
		r.Lexed.Allocs, r.Lexed.Frees, r.Lexed.LiveBlocks, r.Lexed.LiveBytes)
	fmt.Fprintf(out, "released:    allocs %d, frees %d, live %d blocks (%d bytes)\n",
		r.Released.Allocs, r.Released.Frees, r.Released.LiveBlocks, r.Released.LiveBytes)
}
