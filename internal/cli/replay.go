package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogsync/internal/ir"
	"github.com/roach88/catalogsync/internal/projection"
	"github.com/roach88/catalogsync/internal/reactive"
	"github.com/roach88/catalogsync/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Compact bool
}

// ReplayResult is the output of the replay command.
type ReplayResult struct {
	Steps []ReplayStep `json:"steps"`

	// Consistent reports that the projection ended up showing exactly the
	// store's snapshot without falling back to a full reload.
	Consistent bool  `json:"consistent"`
	Desyncs    int64 `json:"desyncs"`
}

// ReplayStep is one catalog applied to the store.
type ReplayStep struct {
	Seq     int64           `json:"seq"`
	Catalog string          `json:"catalog"`
	Hash    string          `json:"hash"`
	Ops     []string        `json:"ops"`
	Calls   []string        `json:"calls"`
	Layout  []SectionLayout `json:"layout"`
}

// SectionLayout is the laid-out form of one section after a step.
type SectionLayout struct {
	Section      string  `json:"section"`
	Header       string  `json:"header,omitempty"`
	Rows         int     `json:"rows"`
	RowHeight    float64 `json:"row_height"`
	HeaderHeight float64 `json:"header_height"`
}

// RenderText implements TextRenderer.
func (r ReplayResult) RenderText(w io.Writer, verbose bool) {
	for _, step := range r.Steps {
		fmt.Fprintf(w, "#%d %s (%d ops)\n", step.Seq, step.Catalog, len(step.Ops))
		for _, op := range step.Ops {
			fmt.Fprintf(w, "  %s\n", op)
		}
		if !verbose {
			continue
		}
		for _, call := range step.Calls {
			fmt.Fprintf(w, "  > %s\n", call)
		}
		for _, sec := range step.Layout {
			fmt.Fprintf(w, "  | %s: %d rows x %.0f, header %.0f\n", sec.Section, sec.Rows, sec.RowHeight, sec.HeaderHeight)
		}
	}
	if r.Consistent {
		fmt.Fprintln(w, "✓ Projection consistent")
	} else {
		fmt.Fprintf(w, "✗ Projection inconsistent (%d desyncs)\n", r.Desyncs)
	}
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <catalog>...",
		Short: "Replay catalogs through a store and list projection",
		Long: `Apply each catalog in turn to an initially empty store, with a list
projection bound to it, and report the edit operations, the list calls
they produced and the resulting layout.

Exit codes:
  0 - Projection stayed consistent with the store
  1 - Projection diverged or fell back to a full reload
  2 - Command error (unreadable catalog, etc.)

Examples:
  catalogsync replay v1.yaml v2.yaml v3.yaml
  catalogsync replay v1.yaml v2.yaml --compact -v`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(runReplay(opts, args, cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.Compact, "compact", rootOpts.Env.Compact, "use compact row heights")

	return cmd
}

func runReplay(opts *ReplayOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	catalogs := make([]*loadedCatalog, len(paths))
	for i, path := range paths {
		lc, err := loadCatalog(path)
		if err != nil {
			return reportLoadError(formatter, path, err)
		}
		catalogs[i] = lc
	}

	st := store.New()
	defer st.Close()

	// Events queue on the loop and are applied when drained, as they would
	// be on a UI thread.
	loop := reactive.NewLoop()
	surface := &callSurface{}
	proj := projection.Bind(st, loop, surface)
	defer proj.Close()

	result := ReplayResult{Steps: make([]ReplayStep, 0, len(catalogs))}
	for _, lc := range catalogs {
		surface.reset()
		event := st.Replace(lc.Snapshot)
		loop.Drain()

		formatter.VerboseLog("seq %d: %d op(s) from %s", event.Seq, len(event.Ops), lc.Path)
		result.Steps = append(result.Steps, ReplayStep{
			Seq:     event.Seq,
			Catalog: lc.Path,
			Hash:    ir.MustSnapshotHash(event.Snapshot),
			Ops:     ir.OpStrings(event.Ops),
			Calls:   surface.calls(),
			Layout:  layout(proj, opts.Compact),
		})
	}

	result.Desyncs = proj.Desyncs()
	result.Consistent = result.Desyncs == 0 && proj.Snapshot().Equal(st.Current())

	if !result.Consistent {
		msg := "projection diverged from the store"
		if err := formatter.Failure(result, ErrCodeMismatch, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(result)
}

func layout(proj *projection.Projection, compact bool) []SectionLayout {
	out := make([]SectionLayout, proj.NumberOfSections())
	for i := range out {
		meta, _ := proj.SectionMetadata(i)
		rows := proj.NumberOfItems(i)
		out[i] = SectionLayout{
			Section:      meta.Identity(),
			Header:       projection.HeaderTitle(meta),
			Rows:         rows,
			RowHeight:    projection.RowHeight(meta, compact),
			HeaderHeight: projection.HeaderHeight(rows),
		}
	}
	return out
}

// callSurface records list calls by name. The replay loop is
// single-threaded, so it needs no locking.
type callSurface struct {
	log []string
}

var _ projection.Surface = (*callSurface)(nil)

func (s *callSurface) reset()          { s.log = nil }
func (s *callSurface) calls() []string { return slices.Clone(s.log) }

func (s *callSurface) add(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

func (s *callSurface) PerformBatchUpdates(updates func()) {
	s.add("PerformBatchUpdates")
	updates()
	s.add("EndBatch")
}

func (s *callSurface) ReloadData()                  { s.add("ReloadData") }
func (s *callSurface) InsertSection(at int)         { s.add("InsertSection(%d)", at) }
func (s *callSurface) DeleteSection(at int)         { s.add("DeleteSection(%d)", at) }
func (s *callSurface) MoveSection(from, to int)     { s.add("MoveSection(%d,%d)", from, to) }
func (s *callSurface) ReloadSection(at int)         { s.add("ReloadSection(%d)", at) }
func (s *callSurface) InsertRow(section, row int)   { s.add("InsertRow(%d,%d)", section, row) }
func (s *callSurface) DeleteRow(section, row int)   { s.add("DeleteRow(%d,%d)", section, row) }
func (s *callSurface) ReloadRow(section, row int)   { s.add("ReloadRow(%d,%d)", section, row) }
func (s *callSurface) DeselectRow(section, row int) { s.add("DeselectRow(%d,%d)", section, row) }

func (s *callSurface) MoveRow(section, from, to int) {
	s.add("MoveRow(%d,%d,%d)", section, from, to)
}
