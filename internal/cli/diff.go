package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogsync/internal/diff"
	"github.com/roach88/catalogsync/internal/ir"
)

// DiffResult is the output of the diff command.
type DiffResult struct {
	Old     string   `json:"old"`
	New     string   `json:"new"`
	OldHash string   `json:"old_hash"`
	NewHash string   `json:"new_hash"`
	Ops     []string `json:"ops"`

	// Verified reports that applying Ops to the old snapshot reproduced
	// the new one.
	Verified bool `json:"verified"`
}

// RenderText implements TextRenderer.
func (r DiffResult) RenderText(w io.Writer, verbose bool) {
	if verbose {
		fmt.Fprintf(w, "old %s %s\n", shortHash(r.OldHash), r.Old)
		fmt.Fprintf(w, "new %s %s\n", shortHash(r.NewHash), r.New)
	}
	if len(r.Ops) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}
	for _, op := range r.Ops {
		fmt.Fprintln(w, op)
	}
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old-catalog> <new-catalog>",
		Short: "Print the edit operations between two catalogs",
		Long: `Compute the ordered edit operations that turn the old catalog's
sections into the new one's, as a list view would receive them.

The operations are replayed against the old catalog and the result is
checked against the new one before anything is printed.

Examples:
  catalogsync diff menu.yaml menu-next.yaml
  catalogsync diff menu.cue menu-next.cue --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(runDiff(rootOpts, args[0], args[1], cmd))
		},
	}
	return cmd
}

func runDiff(opts *RootOptions, oldPath, newPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	before, err := loadCatalog(oldPath)
	if err != nil {
		return reportLoadError(formatter, oldPath, err)
	}
	after, err := loadCatalog(newPath)
	if err != nil {
		return reportLoadError(formatter, newPath, err)
	}

	ops := diff.Diff(before.Snapshot, after.Snapshot)
	formatter.VerboseLog("%d op(s) between %s and %s", len(ops), oldPath, newPath)

	result := DiffResult{
		Old:     oldPath,
		New:     newPath,
		OldHash: ir.MustSnapshotHash(before.Snapshot),
		NewHash: ir.MustSnapshotHash(after.Snapshot),
		Ops:     ir.OpStrings(ops),
	}

	replayed, err := diff.Apply(before.Snapshot, ops)
	if err != nil || !replayed.Equal(after.Snapshot) {
		msg := "operations do not reproduce the new catalog"
		if err != nil {
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		if ferr := formatter.Failure(result, ErrCodeMismatch, msg); ferr != nil {
			return ferr
		}
		return NewExitError(ExitFailure, msg)
	}
	result.Verified = true

	return formatter.Success(result)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
