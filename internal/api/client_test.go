package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/server"
)

func newBackend(t *testing.T) *api.Client {
	t.Helper()
	repo, err := server.NewRepository(nil)
	require.NoError(t, err)
	ts := httptest.NewServer(server.NewRouter(repo, zerolog.Nop()))
	t.Cleanup(ts.Close)
	return api.New(ts.URL)
}

func TestClient_RoundTrip(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	td, err := c.Create(ctx, model.Draft{Name: "Buy milk", Description: "2%", DueDate: "2024-01-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, td.ID)
	assert.Equal(t, "2024-01-01", td.DueDate)

	updated, err := c.SetStatus(ctx, td.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Status)

	items, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Status)

	require.NoError(t, c.Delete(ctx, td.ID))

	items, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_RequestShape(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"abc","status":false}}`))
	}))
	defer ts.Close()

	c := api.New(ts.URL + "/")
	require.NoError(t, c.Delete(context.Background(), "abc"))

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/todo", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"id":"abc"}`, gotBody)

	_, err := c.SetStatus(context.Background(), "abc", false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","status":false}`, gotBody)
}

func TestClient_Errors(t *testing.T) {
	list := func(c *api.Client) error {
		_, err := c.List(context.Background())
		return err
	}
	create := func(c *api.Client) error {
		_, err := c.Create(context.Background(), model.Draft{Name: "Buy milk"})
		return err
	}
	setStatus := func(c *api.Client) error {
		_, err := c.SetStatus(context.Background(), "abc", true)
		return err
	}
	body := func(code int, s string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(s))
		}
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		call    func(*api.Client) error
		is      error
	}{
		{
			name:    "success false",
			handler: body(http.StatusOK, `{"success":false,"message":"nope"}`),
			call:    list,
			is:      api.ErrRejected,
		},
		{
			name:    "server error status",
			handler: body(http.StatusInternalServerError, `{"success":true}`),
			call:    list,
			is:      api.ErrRejected,
		},
		{
			name:    "non json error page",
			handler: body(http.StatusBadGateway, `<html>bad gateway</html>`),
			call:    list,
			is:      api.ErrRejected,
		},
		{
			name:    "unparseable body",
			handler: body(http.StatusOK, `not json`),
			call:    list,
			is:      api.ErrNetwork,
		},
		{
			name:    "bad data shape",
			handler: body(http.StatusOK, `{"success":true,"data":{"not":"a list"}}`),
			call:    list,
			is:      api.ErrNetwork,
		},
		{
			name:    "list without data",
			handler: body(http.StatusOK, `{"success":true}`),
			call:    list,
			is:      api.ErrNetwork,
		},
		{
			name:    "create without data",
			handler: body(http.StatusCreated, `{"success":true}`),
			call:    create,
			is:      api.ErrNetwork,
		},
		{
			name:    "create with null data",
			handler: body(http.StatusCreated, `{"success":true,"data":null}`),
			call:    create,
			is:      api.ErrNetwork,
		},
		{
			name:    "update without data",
			handler: body(http.StatusOK, `{"success":true}`),
			call:    setStatus,
			is:      api.ErrNetwork,
		},
		{
			name:    "update with null data",
			handler: body(http.StatusOK, `{"success":true,"data":null}`),
			call:    setStatus,
			is:      api.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			err := tt.call(api.New(ts.URL))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestClient_DeleteNeedsNoData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	assert.NoError(t, api.New(ts.URL).Delete(context.Background(), "abc"))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	_, err := api.New(ts.URL, api.WithTimeout(50*time.Millisecond)).List(context.Background())
	assert.ErrorIs(t, err, api.ErrNetwork)
}

func TestClient_RejectionCarriesMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "name is required"})
	}))
	defer ts.Close()

	_, err := api.New(ts.URL).Create(context.Background(), model.Draft{})

	var rej *api.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, http.StatusBadRequest, rej.StatusCode)
	assert.Equal(t, "name is required", rej.Message)
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := api.New(url, api.WithTimeout(time.Second)).List(context.Background())
	assert.ErrorIs(t, err, api.ErrNetwork)
}
