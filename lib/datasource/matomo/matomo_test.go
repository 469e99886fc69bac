package matomo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"scorpion-client/lib/datasource"
	"scorpion-client/lib/restyutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	m := New(Options{})

	result, err := m.Transform(map[string]any{
		"nb_visits":    12.6,
		"bounce_count": 5,
	})
	require.NoError(t, err)
	require.Equal(t, datasource.Result{"Visits": 13}, result)
}

func TestTransformDefaultMapping(t *testing.T) {
	m := New(Options{})

	result, err := m.Transform(map[string]any{
		"avg_time_on_site":     float64(95),
		"bounce_rate":          "41%",
		"nb_actions":           float64(220),
		"nb_actions_per_visit": 2.5,
		"nb_uniq_visitors":     float64(80),
		"nb_visits":            float64(88),
		"unknown_field":        float64(1),
	})
	require.NoError(t, err)
	require.Equal(t, datasource.Result{
		"Visits Duration":   95,
		"Actions":           220,
		"Actions per Visit": 2,
		"Visitors":          80,
		"Visits":            88,
	}, result)
}

func TestTransformCustomMapping(t *testing.T) {
	m := New(Options{Mapping: map[string]string{
		"nb_visits":    "Sessions",
		"bounce_count": "Bounces",
	}})

	result, err := m.Transform(map[string]any{
		"nb_visits":    float64(10),
		"bounce_count": float64(3),
		"nb_actions":   float64(99),
	})
	require.NoError(t, err)
	require.Equal(t, datasource.Result{"Sessions": 10, "Bounces": 3}, result)
}

func TestTransformErrors(t *testing.T) {
	m := New(Options{})

	_, err := m.Transform([]any{})
	require.Error(t, err)

	_, err = m.Transform(map[string]any{"nb_visits": "many"})
	require.ErrorContains(t, err, "nb_visits")
}

func TestDefaultMappingIsFresh(t *testing.T) {
	mapping := DefaultMapping()
	mapping["nb_visits"] = "changed"
	require.Equal(t, "Visits", DefaultMapping()["nb_visits"])
}

func TestExtract(t *testing.T) {
	var method string
	var query url.Values
	var token string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		method = r.Method
		query = r.URL.Query()
		token = r.PostForm.Get("token_auth")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nb_visits": 12, "bounce_count": 4}`))
	}))
	defer server.Close()

	m := New(Options{BaseUrl: server.URL + "/index.php", AuthToken: "secret"})
	data, err := m.Extract(context.Background(), datasource.Config{
		"site_id": "3",
		"period":  "day",
		"date":    "2024-01-01",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"nb_visits": float64(12), "bounce_count": float64(4)}, data)

	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "API", query.Get("module"))
	require.Equal(t, "VisitsSummary.get", query.Get("method"))
	require.Equal(t, "3", query.Get("idSite"))
	require.Equal(t, "day", query.Get("period"))
	require.Equal(t, "2024-01-01", query.Get("date"))
	require.Equal(t, "json", query.Get("format"))
	require.Equal(t, "secret", token)
}

func TestExtractErrors(t *testing.T) {
	status := http.StatusForbidden
	body := `{"result": "error", "message": "forbidden"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	m := New(Options{BaseUrl: server.URL, AuthToken: "secret"})
	config := datasource.Config{"site_id": "3", "period": "day", "date": "today"}

	_, err := m.Extract(context.Background(), datasource.Config{"site_id": "3"})
	require.ErrorContains(t, err, "period")

	_, err = m.Extract(context.Background(), config)
	var httpErr *restyutil.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.StatusCode)

	status = http.StatusOK
	_, err = m.Extract(context.Background(), config)
	require.ErrorContains(t, err, "forbidden")
}
