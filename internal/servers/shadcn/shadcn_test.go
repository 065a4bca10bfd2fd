package shadcn

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

func TestListComponents_ParsesIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index.json", r.URL.Path)
		json.NewEncoder(w).Encode([]any{
			map[string]any{"name": "button", "type": "registry:ui"},
			map[string]any{"name": "card", "type": "registry:ui"},
		})
	}))
	defer srv.Close()

	t.Setenv("SHADCN_REGISTRY_URL", srv.URL)

	result, err := listComponents(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, result.Success, "unexpected failure: %+v", result.Error)

	data := result.Data.(map[string]any)
	assert.Equal(t, []string{"button", "card"}, data["components"])
	assert.Equal(t, 2, data["count"])
}

func TestGetComponent_RequiresName(t *testing.T) {
	result, err := getComponent(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, tool.CodeValidationError, result.Error.Code)
}

func TestGetComponent_DefaultsStyle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/styles/new-york/button.json", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"name": "button", "files": []any{}})
	}))
	defer srv.Close()

	t.Setenv("SHADCN_REGISTRY_URL", srv.URL)

	result, err := getComponent(context.Background(), map[string]any{"name": "button"})
	require.NoError(t, err)
	require.True(t, result.Success, "unexpected failure: %+v", result.Error)

	data := result.Data.(map[string]any)
	assert.Equal(t, "button", data["name"])
}

func TestGetComponent_UpstreamMissingIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/styles/default/nope.json", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	t.Setenv("SHADCN_REGISTRY_URL", srv.URL)

	result, err := getComponent(context.Background(), map[string]any{
		"name":  "nope",
		"style": "default",
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, tool.CodeNotFound, result.Error.Code)
	assert.Contains(t, result.Error.Message, `"nope"`)
}

func TestGetComponent_APIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	t.Setenv("SHADCN_REGISTRY_URL", srv.URL)

	result, err := getComponent(context.Background(), map[string]any{"name": "button"})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, tool.CodeAPIError, result.Error.Code)
	assert.Contains(t, result.Error.Message, "503")
}

func TestAddComponent_RequiresName(t *testing.T) {
	result, err := addComponent(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.False(t, result.Success)
	assert.Equal(t, tool.CodeValidationError, result.Error.Code)
	assert.Equal(t, tool.ExecutionCLI, result.Metadata.ExecutionType)
}
