package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

func TestListTables_MissingConfig(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")

	result, err := listTables(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, tool.CodeMissingConfig, result.Error.Code)
}

func TestListTables_ParsesOpenAPIPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		json.NewEncoder(w).Encode(map[string]any{
			"paths": map[string]any{
				"/":            map[string]any{},
				"/users":       map[string]any{},
				"/projects":    map[string]any{},
				"/rpc/do_work": map[string]any{},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")

	result, err := listTables(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, result.Success, "unexpected failure: %+v", result.Error)

	data := result.Data.(map[string]any)
	tables := data["tables"].([]string)
	assert.ElementsMatch(t, []string{"users", "projects"}, tables)
}

func TestQueryTable_RequiresTable(t *testing.T) {
	result, err := queryTable(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, tool.CodeValidationError, result.Error.Code)
}

func TestQueryTable_BuildsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "id,name", q.Get("select"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "eq.active", q.Get("status"))
		json.NewEncoder(w).Encode([]any{
			map[string]any{"id": 1, "name": "ada"},
		})
	}))
	defer srv.Close()

	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")

	result, err := queryTable(context.Background(), map[string]any{
		"table":  "users",
		"select": "id,name",
		"limit":  float64(10),
		"filter": "status=eq.active",
	})
	require.NoError(t, err)
	require.True(t, result.Success, "unexpected failure: %+v", result.Error)

	data := result.Data.(map[string]any)
	assert.Equal(t, 1, data["count"])
}

func TestQueryTable_APIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"message": "JWT expired"})
	}))
	defer srv.Close()

	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "stale-key")

	result, err := queryTable(context.Background(), map[string]any{"table": "users"})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, tool.CodeAPIError, result.Error.Code)
	assert.Contains(t, result.Error.Message, "401")
}
