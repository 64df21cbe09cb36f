package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogsync/internal/catalog"
	"github.com/roach88/catalogsync/internal/ir"
)

// ValidationResult holds validation results for a set of catalog files.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  []CatalogSummary  `json:"files"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// CatalogSummary describes a catalog that loaded cleanly.
type CatalogSummary struct {
	Path       string `json:"path"`
	Name       string `json:"name,omitempty"`
	Sections   int    `json:"sections"`
	Items      int    `json:"items"`
	Components int    `json:"components"`
	Hash       string `json:"hash"`
}

// ValidationError describes a catalog that did not load.
type ValidationError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// RenderText implements TextRenderer.
func (r ValidationResult) RenderText(w io.Writer, verbose bool) {
	for _, f := range r.Files {
		fmt.Fprintf(w, "✓ %s (%d sections, %d items)\n", f.Path, f.Sections, f.Items)
		if verbose {
			fmt.Fprintf(w, "  hash: %s\n", f.Hash)
		}
	}
	for _, e := range r.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "✗ %s:%d [%s] %s\n", e.Path, e.Line, e.Code, e.Message)
		} else {
			fmt.Fprintf(w, "✗ %s [%s] %s\n", e.Path, e.Code, e.Message)
		}
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog>...",
		Short: "Validate catalog files",
		Long: `Validate YAML or CUE catalog files against the catalog schema.

Every file is checked; the command fails if any file is invalid.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(runValidate(rootOpts, args, cmd))
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	result := ValidationResult{Files: []CatalogSummary{}}

	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		lc, err := loadCatalog(path)
		if err != nil {
			result.Errors = append(result.Errors, toValidationError(path, err))
			continue
		}
		result.Files = append(result.Files, CatalogSummary{
			Path:       path,
			Name:       lc.Catalog.Name,
			Sections:   lc.Snapshot.Len(),
			Items:      lc.Snapshot.TotalItems(),
			Components: len(lc.Catalog.FilterComponents()),
			Hash:       ir.MustSnapshotHash(lc.Snapshot),
		})
	}

	if len(result.Errors) > 0 {
		msg := fmt.Sprintf("%d of %d catalog(s) invalid", len(result.Errors), len(paths))
		if err := formatter.Failure(result, ErrCodeInvalid, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	result.Valid = true
	return formatter.Success(result)
}

func toValidationError(path string, err error) ValidationError {
	var le *catalog.LoadError
	if !errors.As(err, &le) {
		return ValidationError{Path: path, Code: ErrCodeGeneric, Message: err.Error()}
	}
	ve := ValidationError{Path: path, Code: le.Code, Message: le.Message}
	if le.Pos.IsValid() {
		ve.Line = le.Pos.Line()
	}
	return ve
}
