package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

func TestFetchPageParsesEnvelopeAndMeta(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/inventory", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("per_page"))
		assert.Equal(t, "RIC", r.URL.Query().Get("category"))
		// Search, brand and features collapse into the one q parameter.
		assert.Equal(t, "pure Signia bluetooth", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": "srv-21", "name": "Pure 312"},
			},
			"meta": map[string]any{
				"page": 2, "perPage": 20, "total": 45, "totalPages": 3,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	rows, info, err := c.FetchPage(context.Background(), model.RecordFilter{
		Search:   "pure",
		Brand:    "Signia",
		Category: "RIC",
		Features: []string{"bluetooth"},
	}, 2, 20)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "srv-21", rows[0]["id"])

	assert.Equal(t, 2, info.Page)
	assert.Equal(t, 45, info.Total)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrevious)
}

func TestFetchPageWithoutMetaDerivesPageInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": "a"}, {"id": "b"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	rows, info, err := c.FetchPage(context.Background(), model.RecordFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, info.Total)
	assert.Equal(t, 1, info.TotalPages)
}

func TestCreateReturnsServerRecord(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inventory", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Moment 440", payload["name"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "srv_99", "name": "Moment 440"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	record, err := c.Create(context.Background(), map[string]any{"name": "Moment 440"})
	require.NoError(t, err)
	assert.Equal(t, "srv_99", record["id"])
}

func TestTransportErrorReportsQueued(t *testing.T) {
	t.Parallel()

	// Bind then close, so the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, 200*time.Millisecond)

	_, err := c.Create(context.Background(), map[string]any{"name": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrQueued)
	assert.NotErrorIs(t, err, model.ErrRemoteFailure)
}

func TestHTTPErrorStatusReportsRemoteFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"success":false,"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.Update(context.Background(), "rec-1", map[string]any{"unitPrice": 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRemoteFailure)
	assert.NotErrorIs(t, err, model.ErrQueued)
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/inventory/rec-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	require.NoError(t, c.Delete(context.Background(), "rec-1"))
}
