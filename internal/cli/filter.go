package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogsync/internal/filter"
	"github.com/roach88/catalogsync/internal/filterstore"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	DB         string
	CityID     int64
	CategoryID int64
	Query      string
	Toggle     []int64
	Drop       bool
}

// FilterResult is the output of the filter command.
type FilterResult struct {
	Title      string           `json:"title"`
	CityID     int64            `json:"city_id"`
	CategoryID int64            `json:"category_id"`
	Query      string           `json:"query,omitempty"`
	Components []ComponentState `json:"components"`

	// Selected is the persisted selection, including components the query
	// hides.
	Selected []int64 `json:"selected"`
}

// ComponentState is one displayed component.
type ComponentState struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
}

// RenderText implements TextRenderer.
func (r FilterResult) RenderText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "%s (city %d, category %d)\n", r.Title, r.CityID, r.CategoryID)
	if r.Query != "" {
		fmt.Fprintf(w, "query: %q\n", r.Query)
	}
	if len(r.Components) == 0 {
		fmt.Fprintln(w, "No components.")
	}
	for _, c := range r.Components {
		mark := "[ ]"
		if c.Selected {
			mark = "[x]"
		}
		if verbose {
			fmt.Fprintf(w, "%s %s (%d)\n", mark, c.Title, c.ID)
		} else {
			fmt.Fprintf(w, "%s %s\n", mark, c.Title)
		}
	}
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <catalog>",
		Short: "List and toggle filter components of a catalog",
		Long: `Show the filterable components of a catalog, narrowed by a search
query, with their persisted selection state.

The selection lives in a SQLite filter store keyed by (city, category).
--drop clears it before anything else; --toggle flips displayed
components after the query is applied.

Examples:
  catalogsync filter menu.yaml --query mo
  catalogsync filter menu.yaml --toggle 1 --toggle 3 --db filters.db
  catalogsync filter menu.yaml --drop`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(runFilter(cmd.Context(), opts, args[0], cmd))
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", rootOpts.Env.FilterDB, "path to the filter database")
	cmd.Flags().Int64Var(&opts.CityID, "city", rootOpts.Env.CityID, "city ID (default: catalog city_id)")
	cmd.Flags().Int64Var(&opts.CategoryID, "category", rootOpts.Env.CategoryID, "category ID (default: catalog category_id)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "search query")
	cmd.Flags().Int64SliceVar(&opts.Toggle, "toggle", nil, "component ID to toggle (repeatable)")
	cmd.Flags().BoolVar(&opts.Drop, "drop", false, "clear the persisted filter first")

	return cmd
}

func runFilter(ctx context.Context, opts *FilterOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	lc, err := loadCatalog(path)
	if err != nil {
		return reportLoadError(formatter, path, err)
	}

	cityID, categoryID := opts.CityID, opts.CategoryID
	if cityID == 0 {
		cityID = lc.Catalog.CityID
	}
	if categoryID == 0 {
		categoryID = lc.Catalog.CategoryID
	}

	fs, err := filterstore.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open filter store", err)
	}
	defer fs.Close()

	cfg := filter.Config{
		CityID:     cityID,
		CategoryID: categoryID,
		Storage:    fs,
		Router:     noRouter{},
	}
	var pipeline *filter.Pipeline
	if len(lc.Catalog.Components) > 0 {
		cfg.Components = lc.Catalog.Components
		pipeline, err = filter.New(cfg)
	} else {
		pipeline, err = filter.NewFromProducts(cfg, lc.Catalog.ProductSource())
	}
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "start filter", err)
	}
	defer pipeline.Dispose()
	formatter.VerboseLog("%d component(s) in %s", len(pipeline.Origin()), path)

	if opts.Drop {
		if err := pipeline.DropFilter(ctx); err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "drop filter", err)
		}
	}
	if opts.Query != "" {
		pipeline.SetQuery(opts.Query)
	}

	cells := pipeline.Components().Value()
	for _, id := range opts.Toggle {
		i := slices.IndexFunc(cells, func(c *filter.CellModel) bool { return c.Component.ID == id })
		if i < 0 {
			msg := fmt.Sprintf("component %d is not displayed", id)
			_ = formatter.Error(ErrCodeArguments, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		selected, err := cells[i].Toggle(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "toggle", err)
		}
		formatter.VerboseLog("toggled %d: selected=%t", id, selected)
	}

	result := FilterResult{
		Title:      pipeline.Title(),
		CityID:     cityID,
		CategoryID: categoryID,
		Query:      opts.Query,
		Components: make([]ComponentState, len(cells)),
	}
	for i, cell := range cells {
		selected, err := cell.Selected(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "read filter", err)
		}
		result.Components[i] = ComponentState{ID: cell.Component.ID, Title: cell.Title(), Selected: selected}
	}

	state, err := fs.Filter(ctx, cityID, categoryID)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read filter", err)
	}
	result.Selected = state.Components

	return formatter.Success(result)
}

// noRouter backs the filter pipeline outside a UI; there is no page to
// leave.
type noRouter struct{}

func (noRouter) ShowPreviousPage() {}
