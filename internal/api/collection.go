package api

import (
	"context"
	"net/http"

	"github.com/propdesk/propdesk/internal/domain"
)

// Collection is a plain CRUD resource such as /passwords.
type Collection[T any] struct {
	client *Client
	path   string
}

// Passwords returns the password vault collection.
func (c *Client) Passwords() *Collection[domain.PasswordEntry] {
	return &Collection[domain.PasswordEntry]{client: c, path: "/passwords"}
}

// Watermarks returns the watermark collection.
func (c *Client) Watermarks() *Collection[domain.Watermark] {
	return &Collection[domain.Watermark]{client: c, path: "/watermarks"}
}

// List returns every record.
func (col *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out dataEnvelope[[]T]
	if err := col.client.getJSON(ctx, col.path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Get returns one record.
func (col *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out dataEnvelope[T]
	err := col.client.getJSON(ctx, col.path+"/"+escape(id), nil, &out)
	return out.Data, err
}

// Create adds a record and returns it as stored.
func (col *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var out dataEnvelope[T]
	err := col.client.sendJSON(ctx, http.MethodPost, col.path, item, &out)
	return out.Data, err
}

// Update patches the named fields of a record.
func (col *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var out dataEnvelope[T]
	err := col.client.sendJSON(ctx, http.MethodPatch, col.path+"/"+escape(id), patch, &out)
	return out.Data, err
}

// Delete removes a record.
func (col *Collection[T]) Delete(ctx context.Context, id string) error {
	return col.client.doJSON(ctx, request{method: http.MethodDelete, path: col.path + "/" + escape(id)}, nil)
}
