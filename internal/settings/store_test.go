package settings

import (
	"path/filepath"
	"testing"

	"github.com/propdesk/propdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	st, err := Open(path)
	require.NoError(t, err)
	return st, path
}

func TestPinPersistsImmediately(t *testing.T) {
	st, path := openTestStore(t)

	require.NoError(t, st.Pin(NavDrafts))
	require.NoError(t, st.Pin(NavVault))
	require.NoError(t, st.Pin(NavDrafts))

	assert.Equal(t, []NavItem{NavDrafts, NavVault}, st.Pinned())
	assert.True(t, st.IsPinned(NavVault))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []NavItem{NavDrafts, NavVault}, reopened.Pinned())
}

func TestPinRejectsUnknownAndOverflow(t *testing.T) {
	st := NewMemoryStore(nil)

	assert.Error(t, st.Pin("reports"))

	for _, item := range NavItems[:MaxPinned] {
		require.NoError(t, st.Pin(item))
	}
	err := st.Pin(NavItems[MaxPinned])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most")
	assert.Len(t, st.Pinned(), MaxPinned)
}

func TestUnpin(t *testing.T) {
	st := NewMemoryStore(&Settings{Pinned: []NavItem{NavDrafts, NavVault, NavSettings}})

	require.NoError(t, st.Unpin(NavVault))
	require.NoError(t, st.Unpin(NavWatermarks))

	assert.Equal(t, []NavItem{NavDrafts, NavSettings}, st.Pinned())
}

func TestResetRestoresDefaults(t *testing.T) {
	st, path := openTestStore(t)
	require.NoError(t, st.Pin(NavCreate))
	require.NoError(t, st.SaveBrowse(BrowseState{
		Sort: domain.SortOptions{Field: domain.SortByPrice, Order: domain.SortOrderAsc},
		Tab:  TabOffPlan,
	}))

	require.NoError(t, st.Reset())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), reopened.Get())
}

func TestUpdateFailureLeavesStoreUnchanged(t *testing.T) {
	st := NewMemoryStore(nil)
	calls := 0
	st.OnChange(func(*Settings) { calls++ })

	err := st.Update(func(s *Settings) error {
		s.SortBy = "bedrooms"
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, "createdAt", st.Get().SortBy)
	assert.Zero(t, calls)

	require.NoError(t, st.Pin(NavDrafts))
	assert.Equal(t, 1, calls)
}

func TestGetReturnsCopy(t *testing.T) {
	st := NewMemoryStore(nil)
	s := st.Get()
	s.Columns[0] = "mutated"
	s.Pinned = append(s.Pinned, NavDrafts)

	assert.Equal(t, DefaultColumns, st.Get().Columns)
	assert.Empty(t, st.Pinned())
}

func TestBrowseStateRoundTrip(t *testing.T) {
	st := NewMemoryStore(nil)
	want := BrowseState{
		Sort:    domain.SortOptions{Field: domain.SortByArea, Order: domain.SortOrderAsc},
		Filters: Filter{Purpose: "RENT", Location: "Marina"},
		Tab:     TabOffPlan,
	}

	require.NoError(t, st.SaveBrowse(want))
	assert.Equal(t, want, st.Browse())
}
