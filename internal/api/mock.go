package api

import (
	"context"

	"github.com/propdesk/propdesk/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockListing is a mock page source for testing.
//
// Example usage:
//
//	src := new(MockListing)
//	src.On("FetchPage", mock.Anything, q, 1).Return(domain.Page{...}, nil)
type MockListing struct {
	mock.Mock
}

// FetchPage returns a mocked page.
func (m *MockListing) FetchPage(ctx context.Context, q domain.Query, page int) (domain.Page, error) {
	args := m.Called(ctx, q, page)
	return args.Get(0).(domain.Page), args.Error(1)
}

// MockClient is a mock of the record-level API calls used by the
// wizard and the draft service.
//
// Example usage:
//
//	client := new(MockClient)
//	client.On("GetDraft", mock.Anything, "d1").Return(domain.Draft{ID: "d1"}, nil)
type MockClient struct {
	mock.Mock
}

// GetProperty returns a mocked property record.
func (m *MockClient) GetProperty(ctx context.Context, id string) (map[string]any, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(map[string]any)
	return record, args.Error(1)
}

// CreateProperty returns a mocked created property.
func (m *MockClient) CreateProperty(ctx context.Context, payload map[string]any) (domain.Property, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(domain.Property), args.Error(1)
}

// UpdateProperty returns a mocked updated property.
func (m *MockClient) UpdateProperty(ctx context.Context, id string, payload map[string]any) (domain.Property, error) {
	args := m.Called(ctx, id, payload)
	return args.Get(0).(domain.Property), args.Error(1)
}

// ListDrafts returns mocked drafts.
func (m *MockClient) ListDrafts(ctx context.Context) ([]domain.Draft, error) {
	args := m.Called(ctx)
	drafts, _ := args.Get(0).([]domain.Draft)
	return drafts, args.Error(1)
}

// GetDraft returns a mocked draft.
func (m *MockClient) GetDraft(ctx context.Context, id string) (domain.Draft, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Draft), args.Error(1)
}

// CreateDraft returns a mocked new draft.
func (m *MockClient) CreateDraft(ctx context.Context, data map[string]any) (domain.Draft, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(domain.Draft), args.Error(1)
}

// UpdateDraft returns a mocked updated draft.
func (m *MockClient) UpdateDraft(ctx context.Context, id string, data map[string]any) (domain.Draft, error) {
	args := m.Called(ctx, id, data)
	return args.Get(0).(domain.Draft), args.Error(1)
}

// DeleteDraft returns a mocked error.
func (m *MockClient) DeleteDraft(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Upload returns a mocked upload URL.
func (m *MockClient) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, name, contentType, data)
	return args.String(0), args.Error(1)
}

// FetchDocument returns mocked document bytes.
func (m *MockClient) FetchDocument(ctx context.Context, rawURL string) ([]byte, string, error) {
	args := m.Called(ctx, rawURL)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

// CreateNOC returns a mocked NOC record.
func (m *MockClient) CreateNOC(ctx context.Context, req domain.NOCRequest) (domain.NOCRecord, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.NOCRecord), args.Error(1)
}
