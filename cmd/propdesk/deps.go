package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/drafts"
	"github.com/propdesk/propdesk/internal/hooks"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/propdesk/propdesk/internal/storage/sqlite"
)

// services holds the process-wide dependencies. They are built on first
// use, after the root command has loaded the configuration.
type services struct {
	once   sync.Once
	err    error
	client *api.Client
	store  *settings.Store
	drafts *drafts.Service
	cache  *sqlite.DraftStore
}

var svc = &services{}

func (s *services) init() error {
	s.once.Do(func() {
		if err := cmd.Setup(); err != nil {
			s.err = err
			return
		}
		client, err := api.NewClientFromConfig()
		if err != nil {
			s.err = err
			return
		}
		store, err := settings.Open(settings.Path())
		if err != nil {
			s.err = fmt.Errorf("open settings: %w", err)
			return
		}

		var cache drafts.Cache
		if dc, err := drafts.OpenCache(); err != nil {
			colors.Warning("draft cache unavailable:", err.Error())
		} else if dc != nil {
			s.cache = dc
			cache = dc
		}

		s.client = client
		s.store = store
		s.drafts = drafts.NewService(client, cache, logging.With("component", "drafts"))
	})
	return s.err
}

// API returns the REST client.
func (s *services) API() (*api.Client, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.client, nil
}

// Settings returns the settings store.
func (s *services) Settings() (*settings.Store, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.store, nil
}

// Drafts returns the draft service.
func (s *services) Drafts() (*drafts.Service, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.drafts, nil
}

// Close releases the draft cache.
func (s *services) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// runHook runs user hook scripts. Replaced in tests.
var runHook = hooks.Run

// backend is the API as the wizard sees it. Saves run the user's hook
// scripts, and draft deletion goes through the draft service so the
// local cache entry goes with the remote draft.
type backend struct {
	*api.Client
	drafts *drafts.Service
}

func (b backend) CreateProperty(ctx context.Context, payload map[string]any) (domain.Property, error) {
	if err := runHook(hooks.PreSubmit, hooks.PayloadEnv("", payload)...); err != nil {
		return domain.Property{}, err
	}
	p, err := b.Client.CreateProperty(ctx, payload)
	if err != nil {
		return domain.Property{}, err
	}
	_ = runHook(hooks.PostCreate, hooks.PropertyEnv(p)...)
	return p, nil
}

func (b backend) UpdateProperty(ctx context.Context, id string, payload map[string]any) (domain.Property, error) {
	if err := runHook(hooks.PreSubmit, hooks.PayloadEnv(id, payload)...); err != nil {
		return domain.Property{}, err
	}
	p, err := b.Client.UpdateProperty(ctx, id, payload)
	if err != nil {
		return domain.Property{}, err
	}
	_ = runHook(hooks.PostUpdate, hooks.PropertyEnv(p)...)
	return p, nil
}

func (b backend) DeleteDraft(ctx context.Context, id string) error {
	if err := b.drafts.Delete(ctx, id); err != nil {
		return err
	}
	_ = runHook(hooks.DraftDeleted, hooks.DraftEnv(id)...)
	return nil
}

// Save stores the wizard's data as a draft.
func (b backend) Save(ctx context.Context, id string, data map[string]any) (domain.Draft, error) {
	d, err := b.drafts.Save(ctx, id, data)
	if err != nil {
		return domain.Draft{}, err
	}
	_ = runHook(hooks.DraftSaved, hooks.DraftEnv(d.ID)...)
	return d, nil
}
