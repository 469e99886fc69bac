package nocodb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"scorpion-client/lib/datasource"
	"scorpion-client/lib/restyutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	n := New(Options{Mapping: map[string]string{"Visits": "Visits"}})

	result, err := n.Transform(map[string]any{
		"list": []any{map[string]any{"Value": 7}},
	})
	require.NoError(t, err)
	require.Equal(t, datasource.Result{"Visits": 7}, result)
}

func TestTransformReadsValueForEveryKey(t *testing.T) {
	n := New(Options{Mapping: map[string]string{
		"Visits":    "Visits",
		"Downloads": "Downloads",
	}})

	result, err := n.Transform(map[string]any{
		"list": []any{
			map[string]any{"Title": "first", "Value": 7, "Downloads": 100},
			map[string]any{"Title": "second", "Value": 9},
		},
	})
	require.NoError(t, err)
	require.Equal(t, datasource.Result{"Visits": 9, "Downloads": 9}, result)
}

func TestTransformDefaults(t *testing.T) {
	n := New(Options{})

	result, err := n.Transform(map[string]any{"list": []any{}})
	require.NoError(t, err)
	require.Empty(t, result)

	result, err = n.Transform(map[string]any{"list": []any{map[string]any{"Value": 3}}})
	require.NoError(t, err)
	require.Equal(t, datasource.Result{"Visits": 3}, result)
}

func TestTransformErrors(t *testing.T) {
	n := New(Options{})

	testCases := []any{
		"not an object",
		map[string]any{},
		map[string]any{"list": "not an array"},
		map[string]any{"list": []any{"not an object"}},
		map[string]any{"list": []any{map[string]any{"Title": "no value"}}},
	}
	for _, data := range testCases {
		_, err := n.Transform(data)
		require.Error(t, err, data)
	}
}

func TestExtract(t *testing.T) {
	var path, token, limit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		token = r.Header.Get("xc-token")
		limit = r.URL.Query().Get("limit")
		if token != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list": [{"Value": 7}], "pageInfo": {"totalRows": 1}}`))
	}))
	defer server.Close()

	n := New(Options{BaseUrl: server.URL + "/api/v2/", AuthToken: "secret"})
	data, err := n.Extract(context.Background(), datasource.Config{"limit": "1"})
	require.NoError(t, err)
	require.Equal(t, "/api/v2/tables/muok9y2gaj515xy/records", path)
	require.Equal(t, "secret", token)
	require.Equal(t, "1", limit)

	result, err := n.Transform(data)
	require.NoError(t, err)
	require.Equal(t, datasource.Result{"Visits": float64(7)}, result)

	other := New(Options{BaseUrl: server.URL + "/api/v2/", AuthToken: "wrong", TableId: "other"})
	_, err = other.Extract(context.Background(), nil)
	var httpErr *restyutil.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	require.Equal(t, "/api/v2/tables/other/records", path)
}
