package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse validates data as a catalog. The format is chosen by the extension
// of name, which also labels error positions.
func Parse(name string, data []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	var value cue.Value
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Path: name, Message: err.Error()}
		}
		if raw == nil {
			raw = map[string]any{}
		}
		value = ctx.Encode(raw)
	case ".cue":
		value = ctx.CompileBytes(data, cue.Filename(name))
	default:
		return nil, &LoadError{
			Code:    ErrCodeFormat,
			Path:    name,
			Message: fmt.Sprintf("unsupported catalog extension %q (want .yaml, .yml or .cue)", filepath.Ext(name)),
		}
	}
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeParse, name, err)
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect.
		panic(fmt.Sprintf("catalog schema: %v", err))
	}

	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, name, err)
	}

	var c Catalog
	if err := unified.Decode(&c); err != nil {
		return nil, cueError(ErrCodeSchema, name, err)
	}

	// Catch duplicate identities here so a bad file fails at load time,
	// not when it first reaches a store.
	if _, err := c.Snapshot(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidData, Path: name, Message: err.Error()}
	}

	slog.Debug("catalog loaded",
		"path", name,
		"sections", len(c.Sections),
		"components", len(c.FilterComponents()),
	)
	return &c, nil
}
