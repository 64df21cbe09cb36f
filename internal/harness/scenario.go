package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/catalogsync/internal/filter"
	"github.com/roach88/catalogsync/internal/ir"
)

// Scenario is one end-to-end run.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Catalog is an optional catalog file loaded before the first step.
	// Relative paths resolve against the scenario file.
	Catalog string `yaml:"catalog,omitempty"`

	// SelectionCooldown suspends selection after each accepted activation.
	// Parsed with time.ParseDuration; empty means no cooldown.
	SelectionCooldown string `yaml:"selection_cooldown,omitempty"`

	// Filter enables the filter pipeline.
	Filter *FilterSetup `yaml:"filter,omitempty"`

	Steps []Step `yaml:"steps"`
}

// FilterSetup configures the filter pipeline of a scenario.
type FilterSetup struct {
	CityID     int64 `yaml:"city_id"`
	CategoryID int64 `yaml:"category_id"`

	// Components is the explicit origin set.
	Components []filter.Component `yaml:"components,omitempty"`

	// FromCatalog derives the origin set from the products of the initial
	// catalog instead.
	FromCatalog bool `yaml:"from_catalog,omitempty"`
}

// Step is one action plus optional expectations. Exactly one action field
// must be set.
type Step struct {
	// Replace carries inline catalog content, validated like a catalog file.
	Replace *yaml.Node `yaml:"replace,omitempty"`

	// Load replaces the store content with a catalog file.
	Load string `yaml:"load,omitempty"`

	Select     *SelectStep `yaml:"select,omitempty"`
	Advance    string      `yaml:"advance,omitempty"`
	Query      *string     `yaml:"query,omitempty"`
	ClearQuery bool        `yaml:"clear_query,omitempty"`
	Toggle     *int64      `yaml:"toggle,omitempty"`
	DropFilter bool        `yaml:"drop_filter,omitempty"`
	Close      bool        `yaml:"close,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`

	advance time.Duration
}

// SelectStep activates the row at (Section, Row).
type SelectStep struct {
	Section int `yaml:"section"`
	Row     int `yaml:"row"`
}

// Expect lists step outcomes to check. Nil fields are not checked.
type Expect struct {
	// Ops are the edit operations of the step's change event, in
	// EditOp.String notation.
	Ops []string `yaml:"ops,omitempty"`

	// Outline is the store content after the step.
	Outline []ir.SectionOutline `yaml:"outline,omitempty"`

	// Selected is the identity of the item a select step published, or
	// "" if the activation was rejected.
	Selected *string `yaml:"selected,omitempty"`

	// Components are the titles the filter pipeline displays.
	Components []string `yaml:"components,omitempty"`

	// Filter is the persisted selection, ascending by component ID.
	Filter []int64 `yaml:"filter,omitempty"`

	// Popped is how many times the filter page asked to be closed.
	Popped *int `yaml:"popped,omitempty"`
}

// Step kinds as they appear in traces.
const (
	StepReplace    = "replace"
	StepLoad       = "load"
	StepSelect     = "select"
	StepAdvance    = "advance"
	StepQuery      = "query"
	StepClearQuery = "clear_query"
	StepToggle     = "toggle"
	StepDropFilter = "drop_filter"
	StepClose      = "close"
)

// Kind returns the name of the step's action, or "" if none or several
// are set.
func (s *Step) Kind() string {
	var kinds []string
	if s.Replace != nil {
		kinds = append(kinds, StepReplace)
	}
	if s.Load != "" {
		kinds = append(kinds, StepLoad)
	}
	if s.Select != nil {
		kinds = append(kinds, StepSelect)
	}
	if s.Advance != "" {
		kinds = append(kinds, StepAdvance)
	}
	if s.Query != nil {
		kinds = append(kinds, StepQuery)
	}
	if s.ClearQuery {
		kinds = append(kinds, StepClearQuery)
	}
	if s.Toggle != nil {
		kinds = append(kinds, StepToggle)
	}
	if s.DropFilter {
		kinds = append(kinds, StepDropFilter)
	}
	if s.Close {
		kinds = append(kinds, StepClose)
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// LoadScenario reads and parses a scenario YAML file. Catalog paths are
// resolved relative to the scenario's directory.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.resolvePaths(filepath.Dir(path))
	return scenario, nil
}

// ParseScenario parses scenario YAML. Relative catalog paths are left as
// they are.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func (s *Scenario) resolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	s.Catalog = resolve(s.Catalog)
	for i := range s.Steps {
		s.Steps[i].Load = resolve(s.Steps[i].Load)
	}
}

// cooldown returns the parsed selection cooldown. Validated already.
func (s *Scenario) cooldown() time.Duration {
	if s.SelectionCooldown == "" {
		return 0
	}
	d, _ := time.ParseDuration(s.SelectionCooldown)
	return d
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one step")
	}
	if s.SelectionCooldown != "" {
		d, err := time.ParseDuration(s.SelectionCooldown)
		if err != nil {
			return fmt.Errorf("selection_cooldown: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("selection_cooldown must be non-negative")
		}
	}
	if f := s.Filter; f != nil {
		if f.FromCatalog && len(f.Components) > 0 {
			return fmt.Errorf("filter: components and from_catalog are mutually exclusive")
		}
		if f.FromCatalog && s.Catalog == "" {
			return fmt.Errorf("filter: from_catalog requires catalog")
		}
	}

	for i := range s.Steps {
		if err := validateStep(s, &s.Steps[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(s *Scenario, step *Step, index int) error {
	kind := step.Kind()
	if kind == "" {
		return fmt.Errorf("steps[%d]: exactly one action is required", index)
	}

	switch kind {
	case StepAdvance:
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("steps[%d]: advance: %w", index, err)
		}
		if d < 0 {
			return fmt.Errorf("steps[%d]: advance must be non-negative", index)
		}
		step.advance = d
	case StepQuery, StepClearQuery, StepToggle, StepDropFilter, StepClose:
		if s.Filter == nil {
			return fmt.Errorf("steps[%d]: %s requires a filter section", index, kind)
		}
	}

	if e := step.Expect; e != nil {
		if e.Selected != nil && kind != StepSelect {
			return fmt.Errorf("steps[%d]: expect.selected only applies to select steps", index)
		}
		if e.Ops != nil && kind != StepReplace && kind != StepLoad {
			return fmt.Errorf("steps[%d]: expect.ops only applies to replace and load steps", index)
		}
		if (e.Components != nil || e.Filter != nil || e.Popped != nil) && s.Filter == nil {
			return fmt.Errorf("steps[%d]: filter expectations require a filter section", index)
		}
	}
	return nil
}
