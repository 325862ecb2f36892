// Package drafts saves and loads property drafts through the API and
// mirrors them into the local cache so they can still be resumed while
// the API is unreachable.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/storage/sqlite"
)

// Remote is the draft API.
type Remote interface {
	ListDrafts(ctx context.Context) ([]domain.Draft, error)
	GetDraft(ctx context.Context, id string) (domain.Draft, error)
	CreateDraft(ctx context.Context, data map[string]any) (domain.Draft, error)
	UpdateDraft(ctx context.Context, id string, data map[string]any) (domain.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Cache is the local mirror. *sqlite.DraftStore implements it.
type Cache interface {
	Put(ctx context.Context, d domain.Draft) (bool, error)
	Get(ctx context.Context, id string) (sqlite.CachedDraft, error)
	List(ctx context.Context) ([]sqlite.CachedDraft, error)
	Delete(ctx context.Context, id string) error
}

// ErrNotFound is returned when a draft exists neither remotely nor in
// the cache.
var ErrNotFound = errors.New("draft not found")

// Source says where a loaded draft came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// Service combines the draft API with the optional local cache.
type Service struct {
	remote Remote
	cache  Cache
	logger logging.Logger
}

// NewService creates a service. cache may be nil.
func NewService(remote Remote, cache Cache, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Service{remote: remote, cache: cache, logger: logger}
}

// CachePath returns the draft cache location under state_dir.
func CachePath() string {
	return filepath.Join(config.Get("state_dir", ""), "drafts.db")
}

// OpenCache opens the configured cache, or returns nil when disabled.
func OpenCache() (*sqlite.DraftStore, error) {
	if !config.GetBool("draft_cache_enabled", true) {
		return nil, nil
	}
	return sqlite.NewDraftStore(CachePath())
}

func isOffline(err error) bool {
	var netErr *api.NetworkError
	return errors.As(err, &netErr)
}

func (s *Service) mirror(ctx context.Context, d domain.Draft) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Put(ctx, d); err != nil {
		s.logger.Warn("draft cache write failed", "draft_id", d.ID, "error", err.Error())
	}
}

// Save creates the draft when id is empty, otherwise updates it.
func (s *Service) Save(ctx context.Context, id string, data map[string]any) (domain.Draft, error) {
	var (
		d   domain.Draft
		err error
	)
	if id == "" {
		d, err = s.remote.CreateDraft(ctx, data)
	} else {
		d, err = s.remote.UpdateDraft(ctx, id, data)
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	if d.Data == nil {
		d.Data = data
	}
	s.mirror(ctx, d)
	s.logger.Info("draft saved", "draft_id", d.ID)
	return d, nil
}

// Load fetches a draft. When the API is unreachable the cached copy is
// returned instead.
func (s *Service) Load(ctx context.Context, id string) (domain.Draft, Source, error) {
	d, err := s.remote.GetDraft(ctx, id)
	if err == nil {
		s.mirror(ctx, d)
		return d, SourceRemote, nil
	}
	if errors.Is(err, api.ErrNotFound) {
		s.forget(ctx, id)
		return domain.Draft{}, "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.cache == nil || !isOffline(err) {
		return domain.Draft{}, "", fmt.Errorf("load draft %s: %w", id, err)
	}

	cached, cacheErr := s.cache.Get(ctx, id)
	if cacheErr != nil {
		if errors.Is(cacheErr, sqlite.ErrDraftNotFound) {
			return domain.Draft{}, "", fmt.Errorf("load draft %s: %w", id, err)
		}
		return domain.Draft{}, "", fmt.Errorf("load draft %s: %w", id, errors.Join(err, cacheErr))
	}
	s.logger.Warn("api unreachable, using cached draft", "draft_id", id, "cached_at", cached.CachedAt.String())
	return cached.Draft, SourceCache, nil
}

// List returns the remote drafts, or the cached ones when offline.
func (s *Service) List(ctx context.Context) ([]domain.Draft, Source, error) {
	list, err := s.remote.ListDrafts(ctx)
	if err == nil {
		for _, d := range list {
			s.mirror(ctx, d)
		}
		return list, SourceRemote, nil
	}
	if s.cache == nil || !isOffline(err) {
		return nil, "", fmt.Errorf("list drafts: %w", err)
	}

	cached, cacheErr := s.cache.List(ctx)
	if cacheErr != nil {
		return nil, "", fmt.Errorf("list drafts: %w", errors.Join(err, cacheErr))
	}
	out := make([]domain.Draft, len(cached))
	for i, c := range cached {
		out[i] = c.Draft
	}
	return out, SourceCache, nil
}

// Delete removes a draft remotely and from the cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.remote.DeleteDraft(ctx, id); err != nil && !errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	s.forget(ctx, id)
	return nil
}

// DeleteDraft makes Service usable wherever the API's DeleteDraft is
// expected, so submitted drafts leave the cache too.
func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	return s.Delete(ctx, id)
}

func (s *Service) forget(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("draft cache delete failed", "draft_id", id, "error", err.Error())
	}
}
