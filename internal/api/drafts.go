package api

import (
	"context"
	"net/http"

	"github.com/propdesk/propdesk/internal/domain"
)

const draftsPath = "/drafts"

// ListDrafts returns every saved draft.
func (c *Client) ListDrafts(ctx context.Context) ([]domain.Draft, error) {
	var out dataEnvelope[[]domain.Draft]
	if err := c.getJSON(ctx, draftsPath, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetDraft fetches one draft. A missing draft matches ErrNotFound.
func (c *Client) GetDraft(ctx context.Context, id string) (domain.Draft, error) {
	var d domain.Draft
	if err := c.getJSON(ctx, draftsPath+"/"+escape(id), nil, &d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

// CreateDraft saves a new draft.
func (c *Client) CreateDraft(ctx context.Context, data map[string]any) (domain.Draft, error) {
	var d domain.Draft
	if err := c.sendJSON(ctx, http.MethodPost, draftsPath, map[string]any{"data": data}, &d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

// UpdateDraft replaces the data of an existing draft.
func (c *Client) UpdateDraft(ctx context.Context, id string, data map[string]any) (domain.Draft, error) {
	var d domain.Draft
	if err := c.sendJSON(ctx, http.MethodPatch, draftsPath+"/"+escape(id), map[string]any{"data": data}, &d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

// DeleteDraft removes a draft.
func (c *Client) DeleteDraft(ctx context.Context, id string) error {
	return c.doJSON(ctx, request{method: http.MethodDelete, path: draftsPath + "/" + escape(id)}, nil)
}
