package api

import (
	"context"
	"net/http"

	"github.com/propdesk/propdesk/internal/domain"
)

const (
	propertiesPath = "/properties"
	offPlanPath    = "/off-plan"
)

// Listing serves one paged listing endpoint.
type Listing struct {
	client *Client
	path   string
}

// Properties returns the GET /properties listing.
func (c *Client) Properties() *Listing {
	return &Listing{client: c, path: propertiesPath}
}

// OffPlan returns the GET /off-plan listing.
func (c *Client) OffPlan() *Listing {
	return &Listing{client: c, path: offPlanPath}
}

// Path returns the endpoint path, e.g. "/properties".
func (l *Listing) Path() string {
	return l.path
}

// FetchPage requests one page of q. Absent filter fields are omitted
// from the query string.
func (l *Listing) FetchPage(ctx context.Context, q domain.Query, page int) (domain.Page, error) {
	var p domain.Page
	if err := l.client.getJSON(ctx, l.path, q.Values(page), &p); err != nil {
		return domain.Page{}, err
	}
	if p.Items == nil {
		p.Items = []domain.Property{}
	}
	return p, nil
}

// GetProperty fetches one property as an untyped record, the shape the
// wizard edits.
func (c *Client) GetProperty(ctx context.Context, id string) (map[string]any, error) {
	var out dataEnvelope[map[string]any]
	if err := c.getJSON(ctx, propertiesPath+"/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateProperty submits a new property record.
func (c *Client) CreateProperty(ctx context.Context, payload map[string]any) (domain.Property, error) {
	var out dataEnvelope[domain.Property]
	if err := c.sendJSON(ctx, http.MethodPost, propertiesPath, payload, &out); err != nil {
		return domain.Property{}, err
	}
	return out.Data, nil
}

// UpdateProperty patches an existing property record.
func (c *Client) UpdateProperty(ctx context.Context, id string, payload map[string]any) (domain.Property, error) {
	var out dataEnvelope[domain.Property]
	if err := c.sendJSON(ctx, http.MethodPatch, propertiesPath+"/"+escape(id), payload, &out); err != nil {
		return domain.Property{}, err
	}
	return out.Data, nil
}
