package menu

import (
	"sync"

	"github.com/roach88/catalogsync/internal/projection"
	"github.com/roach88/catalogsync/internal/reactive"
)

// Model is the page model behind the menu page.
type Model interface {
	Title() string
	Categories() *reactive.Property[[]CategorySection]
	IsBusy() *reactive.Property[bool]
	ShowCategory(sel projection.Selection)
}

// StaticModel is a Model over in-memory sections. Shown records every
// category the page asked to show.
type StaticModel struct {
	title      string
	categories *reactive.Property[[]CategorySection]
	busy       *reactive.Property[bool]

	mu    sync.Mutex
	shown []Category
}

// NewStaticModel creates a model with the given sections, not busy.
func NewStaticModel(title string, sections []CategorySection) *StaticModel {
	return &StaticModel{
		title:      title,
		categories: reactive.NewProperty(sections),
		busy:       reactive.NewProperty(false),
	}
}

func (m *StaticModel) Title() string { return m.title }

func (m *StaticModel) Categories() *reactive.Property[[]CategorySection] { return m.categories }

func (m *StaticModel) IsBusy() *reactive.Property[bool] { return m.busy }

// ShowCategory records the selected category.
func (m *StaticModel) ShowCategory(sel projection.Selection) {
	cell, ok := sel.Item.(ItemCell)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, cell.Category)
}

// Shown returns the categories shown so far.
func (m *StaticModel) Shown() []Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Category, len(m.shown))
	copy(out, m.shown)
	return out
}
