package settings

import (
	"fmt"
	"sync"

	"github.com/propdesk/propdesk/internal/domain"
)

// Store owns the settings for one process. It is loaded once at startup,
// injected where needed and writes the file after every mutation.
type Store struct {
	mu       sync.RWMutex
	path     string
	current  *Settings
	onChange func(*Settings)
}

// Open loads the store from path.
func Open(path string) (*Store, error) {
	s, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, current: s}, nil
}

// NewMemoryStore returns a store that never touches disk.
func NewMemoryStore(s *Settings) *Store {
	if s == nil {
		s = DefaultSettings()
	}
	return &Store{current: s.Clone()}
}

// OnChange registers fn to be called with a copy after each successful
// mutation.
func (st *Store) OnChange(fn func(*Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onChange = fn
}

// Path returns the backing file, or "" for a memory store.
func (st *Store) Path() string {
	return st.path
}

// Get returns a copy of the current settings.
func (st *Store) Get() *Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.Clone()
}

// Update applies fn to a copy, validates and persists it. On error the
// store is left unchanged.
func (st *Store) Update(fn func(*Settings) error) error {
	st.mu.Lock()
	next := st.current.Clone()
	if err := fn(next); err != nil {
		st.mu.Unlock()
		return err
	}
	if err := Validate(next); err != nil {
		st.mu.Unlock()
		return fmt.Errorf("invalid settings: %w", err)
	}
	if st.path != "" {
		if err := SaveFile(st.path, next); err != nil {
			st.mu.Unlock()
			return err
		}
	}
	st.current = next
	onChange := st.onChange
	snapshot := next.Clone()
	st.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
	return nil
}

// Pinned returns the pinned navigation items in pin order.
func (st *Store) Pinned() []NavItem {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]NavItem{}, st.current.Pinned...)
}

// IsPinned reports whether item is pinned.
func (st *Store) IsPinned(item NavItem) bool {
	for _, p := range st.Pinned() {
		if p == item {
			return true
		}
	}
	return false
}

// Pin adds item to the pinned list. Pinning twice is a no-op.
func (st *Store) Pin(item NavItem) error {
	if !item.IsValid() {
		return fmt.Errorf("invalid pinned item: %s", item)
	}
	return st.Update(func(s *Settings) error {
		for _, p := range s.Pinned {
			if p == item {
				return nil
			}
		}
		if len(s.Pinned) >= MaxPinned {
			return fmt.Errorf("cannot pin %s: at most %d items can be pinned", item, MaxPinned)
		}
		s.Pinned = append(s.Pinned, item)
		return nil
	})
}

// Unpin removes item. Unpinning an item that is not pinned is a no-op.
func (st *Store) Unpin(item NavItem) error {
	return st.Update(func(s *Settings) error {
		kept := s.Pinned[:0]
		for _, p := range s.Pinned {
			if p != item {
				kept = append(kept, p)
			}
		}
		s.Pinned = kept
		return nil
	})
}

// Reset restores defaults.
func (st *Store) Reset() error {
	return st.Update(func(s *Settings) error {
		*s = *DefaultSettings()
		return nil
	})
}

// BrowseState is the part of the browse view that is remembered between
// sessions.
type BrowseState struct {
	Sort    domain.SortOptions
	Filters Filter
	Tab     Tab
}

// Browse returns the remembered browse state.
func (st *Store) Browse() BrowseState {
	s := st.Get()
	return BrowseState{Sort: s.Sort(), Filters: s.Filters, Tab: NormalizeTab(string(s.ActiveTab))}
}

// SaveBrowse persists the browse state.
func (st *Store) SaveBrowse(b BrowseState) error {
	return st.Update(func(s *Settings) error {
		s.SortBy = b.Sort.Field.String()
		s.SortOrder = b.Sort.Order.String()
		s.Filters = b.Filters
		s.ActiveTab = b.Tab
		return nil
	})
}
