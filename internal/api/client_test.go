package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api", opts...)
	require.NoError(t, err)
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8787", "ftp://example.com", "http://"} {
		_, err := NewClient(raw)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, raw)
	}
}

func TestFetchPageSendsQueryAndDecodesPage(t *testing.T) {
	var gotQuery map[string][]string
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, domain.Page{
			Items: []domain.Property{{ID: "p1"}, {ID: "p2"}},
			Meta:  domain.PageMeta{Page: 2, TotalPages: 3, Total: 25},
		})
	}))

	q := domain.NewQuery("villa", domain.Filter{
		MinPrice: domain.Float(100000),
		AgentIDs: []string{"a1", "a2"},
	}, domain.SortOptions{Field: domain.SortByPrice, Order: domain.SortOrderAsc})

	page, err := c.Properties().FetchPage(context.Background(), q, 2)
	require.NoError(t, err)

	assert.Equal(t, "/api/properties", gotPath)
	assert.Equal(t, []string{"villa"}, gotQuery["search"])
	assert.Equal(t, []string{"a1", "a2"}, gotQuery["agentIds"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.NotContains(t, gotQuery, "category")
	assert.NotContains(t, gotQuery, "maxPrice")

	assert.Len(t, page.Items, 2)
	assert.Equal(t, domain.PageMeta{Page: 2, TotalPages: 3, Total: 25}, page.Meta)
}

func TestOffPlanUsesItsOwnPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"meta": map[string]int{"page": 1, "totalPages": 1}})
	}))

	page, err := c.OffPlan().FetchPage(context.Background(), domain.NewQuery("", domain.Filter{}, domain.SortOptions{}), 1)
	require.NoError(t, err)
	assert.Equal(t, "/api/off-plan", gotPath)
	assert.NotNil(t, page.Items)
}

func TestRequestHeaders(t *testing.T) {
	var auth, requestID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	}), WithToken("s3cret"))

	_, err := c.ListDrafts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer s3cret", auth)
	_, err = uuid.Parse(requestID)
	assert.NoError(t, err)
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	var ids []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "upstream down"})
			return
		}
		writeJSON(w, http.StatusOK, domain.Draft{ID: "d1"})
	}), WithRetry(2, time.Millisecond))

	d, err := c.GetDraft(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, int32(3), calls.Load())
	// one logical request, one id
	assert.Equal(t, ids[0], ids[2])
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "maintenance"})
	}), WithRetry(2, time.Millisecond))

	_, err := c.GetDraft(context.Background(), "d1")

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusServiceUnavailable, srvErr.Status)
	assert.Equal(t, "maintenance", srvErr.Message)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad filter"})
	}))

	_, err := c.Properties().FetchPage(context.Background(), domain.NewQuery("", domain.Filter{}, domain.SortOptions{}), 1)

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.True(t, srvErr.ClientError())
	assert.False(t, IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := c.GetDraft(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(base, WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	_, err = c.GetDraft(context.Background(), "d1")
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, IsTransient(err))
}

func TestCanceledContextStopsRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), WithRetry(5, time.Hour))
	c.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for calls.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, err := c.GetDraft(ctx, "d1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), calls.Load())
}

func TestUploadSendsMultipartFile(t *testing.T) {
	var gotName, gotBody, gotType string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName = hdr.Filename
		gotType = hdr.Header.Get("Content-Type")
		gotBody = string(data)
		writeJSON(w, http.StatusCreated, map[string]string{"url": "/uploads/abc/noc.pdf"})
	}))

	url, err := c.Upload(context.Background(), "/tmp/noc.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/abc/noc.pdf", url)
	assert.Equal(t, "noc.pdf", gotName)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "%PDF-1.4", gotBody)
}

func TestFetchDocumentResolvesRelativeURL(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF"))
	}))

	data, contentType, err := c.FetchDocument(context.Background(), "/documents/n1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/api/documents/n1.pdf", gotPath)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF"), data)
}

func TestFetchDocumentStopsReadingAtLimit(t *testing.T) {
	orig := maxDocumentSize
	maxDocumentSize = 1 << 10
	t.Cleanup(func() { maxDocumentSize = orig })

	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/pdf")
		chunk := make([]byte, 1<<10)
		for i := 0; i < 64; i++ {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))

	_, _, err := c.FetchDocument(context.Background(), "/documents/big.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Contains(t, err.Error(), "exceeds 1024 bytes")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "oversized documents are not retried")
}

func TestFetchDocumentAtLimit(t *testing.T) {
	orig := maxDocumentSize
	maxDocumentSize = 4
	t.Cleanup(func() { maxDocumentSize = orig })

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF"))
	}))

	data, _, err := c.FetchDocument(context.Background(), "/documents/n1.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
}

func TestCreateNOCValidatesLocally(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	}))

	_, err := c.CreateNOC(context.Background(), domain.NOCRequest{})
	assert.Error(t, err)
}

func TestCollectionCRUD(t *testing.T) {
	var method, path string
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body = nil
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"data": []domain.Watermark{{ID: "w1", Name: "Logo"}}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"data": domain.PasswordEntry{ID: "p1", Title: "Portal"}})
		}
	}))
	ctx := context.Background()

	marks, err := c.Watermarks().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/api/watermarks", path)
	assert.Equal(t, "Logo", marks[0].Name)

	entry, err := c.Passwords().Create(ctx, domain.PasswordEntry{Title: "Portal", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "Portal", body["title"])
	assert.Equal(t, "p1", entry.ID)

	_, err = c.Passwords().Update(ctx, "p1", map[string]any{"notes": "rotated"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/api/passwords/p1", path)

	require.NoError(t, c.Passwords().Delete(ctx, "p1"))
	assert.Equal(t, http.MethodDelete, method)
}
