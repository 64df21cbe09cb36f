package cli

import (
	"errors"

	"github.com/roach88/catalogsync/internal/catalog"
	"github.com/roach88/catalogsync/internal/ir"
)

// loadedCatalog is a catalog file together with its snapshot.
type loadedCatalog struct {
	Path     string
	Catalog  *catalog.Catalog
	Snapshot ir.Snapshot
}

func loadCatalog(path string) (*loadedCatalog, error) {
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	// Load already rejected invalid snapshots.
	snap, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	return &loadedCatalog{Path: path, Catalog: c, Snapshot: snap}, nil
}

// loadErrorDetails is the JSON detail of a catalog load failure.
type loadErrorDetails struct {
	Path   string `json:"path"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// reportLoadError writes err through f and returns the ExitError to
// return from RunE. Unreadable files and unsupported formats are command
// errors; content errors are failures.
func reportLoadError(f *OutputFormatter, path string, err error) error {
	var le *catalog.LoadError
	if !errors.As(err, &le) {
		_ = f.Error(ErrCodeGeneric, err.Error(), loadErrorDetails{Path: path})
		return WrapExitError(ExitFailure, "load catalog", err)
	}

	details := loadErrorDetails{Path: le.Path}
	if le.Pos.IsValid() {
		details.Line = le.Pos.Line()
		details.Column = le.Pos.Column()
	}
	_ = f.Error(le.Code, le.Error(), details)

	code := ExitFailure
	if le.Code == catalog.ErrCodeNotFound || le.Code == catalog.ErrCodeFormat {
		code = ExitCommandError
	}
	return WrapExitError(code, "load catalog", err)
}
