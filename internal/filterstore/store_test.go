package filterstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogsync/internal/filter"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filters.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.db")
	ctx := context.Background()
	key := filter.Key{CityID: 1, CategoryID: 2}

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, key, 5)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	for range 3 {
		s, err = Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	ids, err := s.Components(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids, "selections survive reopening")

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/filters.db")
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestOpen_AppliesConnectionParams(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name, want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.pragma(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	fk, err := s.pragma("foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, "1", fk)

	on, err := s.Toggle(context.Background(), filter.Key{CityID: 1, CategoryID: 1}, 9)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"f.db?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on",
		dsn("f.db"))
	assert.Equal(t,
		"file:f.db?mode=rwc&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on",
		dsn("file:f.db?mode=rwc"))
}

// A database created before any migration is upgraded on open.
func TestOpen_MigratesVersionZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.db")

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(schemaSQL)
	require.NoError(t, err)
	_, err = raw.Exec("INSERT INTO filters (city_id, category_id) VALUES (1, 7)")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	version, err := s.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(currentSchemaVersion), version)

	removed, err := s.Remove(context.Background(), filter.Key{CityID: 1, CategoryID: 7})
	require.NoError(t, err)
	assert.True(t, removed, "rows written before the migration are kept")
}

func TestMigration_IndexExists(t *testing.T) {
	s := createTestStore(t)

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
		"idx_filter_components_component",
	).Scan(&name)
	assert.NoError(t, err)
}

func TestToggle_FlipsSelection(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	key := filter.Key{CityID: 1, CategoryID: 7}

	on, err := s.Toggle(ctx, key, 3)
	require.NoError(t, err)
	assert.True(t, on)

	selected, err := s.Selected(ctx, key, 3)
	require.NoError(t, err)
	assert.True(t, selected)

	on, err = s.Toggle(ctx, key, 3)
	require.NoError(t, err)
	assert.False(t, on)

	selected, err = s.Selected(ctx, key, 3)
	require.NoError(t, err)
	assert.False(t, selected)
}

func TestFilter_OrderedAndScopedToPair(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	key := filter.Key{CityID: 1, CategoryID: 7}
	other := filter.Key{CityID: 2, CategoryID: 7}

	for _, id := range []int64{9, 2, 5} {
		_, err := s.Toggle(ctx, key, id)
		require.NoError(t, err)
	}
	_, err := s.Toggle(ctx, other, 4)
	require.NoError(t, err)

	state, err := s.Filter(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, key, state.Key)
	assert.Equal(t, []int64{2, 5, 9}, state.Components)
}

func TestFilter_UnknownPairIsEmpty(t *testing.T) {
	s := createTestStore(t)

	state, err := s.Filter(context.Background(), 42, 42)
	require.NoError(t, err)
	assert.NotNil(t, state.Components)
	assert.Empty(t, state.Components)
}

func TestEmpty_CascadesSelections(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	key := filter.Key{CityID: 1, CategoryID: 7}
	other := filter.Key{CityID: 1, CategoryID: 8}

	for _, id := range []int64{1, 2} {
		_, err := s.Toggle(ctx, key, id)
		require.NoError(t, err)
	}
	_, err := s.Toggle(ctx, other, 1)
	require.NoError(t, err)

	state, err := s.Filter(ctx, key.CityID, key.CategoryID)
	require.NoError(t, err)
	require.NoError(t, s.Empty(ctx, state))

	after, err := s.Filter(ctx, key.CityID, key.CategoryID)
	require.NoError(t, err)
	assert.Empty(t, after.Components)

	untouched, err := s.Components(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, untouched)

	assert.NoError(t, s.Empty(ctx, state), "emptying twice is a no-op")
}

func TestRemove_ReportsWhetherAFilterExisted(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	key := filter.Key{CityID: 2, CategoryID: 3}

	removed, err := s.Remove(ctx, key)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.Toggle(ctx, key, 4)
	require.NoError(t, err)

	removed, err = s.Remove(ctx, key)
	require.NoError(t, err)
	assert.True(t, removed)

	ids, err := s.Components(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRemove_ClosedStore(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.Remove(context.Background(), filter.Key{CityID: 1, CategoryID: 1})
	assert.Error(t, err)
}

// The filter pipeline's DropFilter runs end to end against SQLite.
func TestPipelineDropFilter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p, err := filter.New(filter.Config{
		CityID:     1,
		CategoryID: 7,
		Components: []filter.Component{{ID: 1, Title: "Salt"}, {ID: 2, Title: "Pepper"}},
		Storage:    s,
		Router:     noopRouter{},
	})
	require.NoError(t, err)
	defer p.Dispose()

	for _, cell := range p.Components().Value() {
		on, err := cell.Toggle(ctx)
		require.NoError(t, err)
		assert.True(t, on)
	}

	require.NoError(t, p.DropFilter(ctx))

	for _, cell := range p.Components().Value() {
		on, err := cell.Selected(ctx)
		require.NoError(t, err)
		assert.False(t, on)
	}
}

type noopRouter struct{}

func (noopRouter) ShowPreviousPage() {}
