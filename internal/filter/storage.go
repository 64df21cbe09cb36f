package filter

import "context"

// Key addresses the persisted filter of one (city, category) pair.
type Key struct {
	CityID     int64
	CategoryID int64
}

// State is the persisted filter of one pair: the selected component IDs.
// The pipeline never inspects Components; it only hands State back to
// Storage.Empty.
type State struct {
	Key        Key
	Components []int64
}

// Storage persists filter selections.
type Storage interface {
	// Filter returns the filter state of (cityID, categoryID). A pair with
	// no selections yields a State with no components, not an error.
	Filter(ctx context.Context, cityID, categoryID int64) (State, error)

	// Empty clears every selection of state's pair.
	Empty(ctx context.Context, state State) error

	// Toggle flips the selection of componentID and returns the new value.
	Toggle(ctx context.Context, key Key, componentID int64) (bool, error)

	// Selected reports whether componentID is selected.
	Selected(ctx context.Context, key Key, componentID int64) (bool, error)
}

// Router receives navigation intents.
type Router interface {
	ShowPreviousPage()
}
