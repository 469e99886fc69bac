package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const servicesJson = `{"result": [
	{"abbreviation": "b2share", "name": "B2SHARE", "category": "Data", "provider": "prov-a", "license": null, "consortia": []},
	{"abbreviation": "b2drop", "name": "B2DROP", "category": "Data", "provider": "prov-a", "license": null, "consortia": []}
]}`

const indicatorsJson = `{"result": [
	{"name": "Visits", "description": "", "selected": true, "categories": [{"name": "Data", "necessity": "required"}]},
	{"name": "Downloads", "description": "", "selected": true, "categories": [{"name": "Data", "necessity": null}]}
]}`

type upstream struct {
	*httptest.Server
	mu          sync.Mutex
	matomoDate  string
	measurement []byte
}

// newUpstream serves both the scorpion api and a matomo instance under /matomo.
func newUpstream(t testing.TB) *upstream {
	u := &upstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/services", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("service") {
		case "", "b2share":
			_, _ = w.Write([]byte(servicesJson))
		default:
			_, _ = w.Write([]byte(`{"result": []}`))
		}
	})
	mux.HandleFunc("GET /api/v1/indicators", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indicatorsJson))
	})
	mux.HandleFunc("POST /api/v1/measurements", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.measurement = body
		u.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("POST /matomo/index.php", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.matomoDate = r.URL.Query().Get("date")
		u.mu.Unlock()
		_, _ = w.Write([]byte(`{"nb_visits": 12.6, "nb_actions": 20, "bounce_rate": "10%"}`))
	})
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)
	return u
}

func writeConfig(t testing.TB, u *upstream) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scorpion.json5")
	contents := fmt.Sprintf(`{
		base_url: "%s",
		api_key: "test-key",
		sources: {
			matomo: {
				options: {base_url: "%s/matomo/index.php", auth_token: "secret"},
				extract: {site_id: "3", period: "day", date: "{date}"},
			},
		},
	}`, u.URL, u.URL)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestSync(t *testing.T) {
	u := newUpstream(t)
	config := writeConfig(t, u)

	err := execute("--config", config, "sync", "matomo", "b2share", "--date", "2024-01-01", "--dry-run=false")
	require.NoError(t, err)

	u.mu.Lock()
	defer u.mu.Unlock()
	require.Equal(t, "2024-01-01", u.matomoDate)
	require.JSONEq(t, `[
		{"kpi": "Visits", "date": "2024-01-01", "value": 13},
		{"kpi": "Downloads", "date": "2024-01-01", "value": null}
	]`, string(u.measurement))
}

func TestSyncDryRun(t *testing.T) {
	u := newUpstream(t)
	config := writeConfig(t, u)

	err := execute("--config", config, "sync", "matomo", "b2share", "--date", "2024-01-02", "--dry-run")
	require.NoError(t, err)

	u.mu.Lock()
	defer u.mu.Unlock()
	require.Equal(t, "2024-01-02", u.matomoDate)
	require.Nil(t, u.measurement)
}

func TestSyncUnconfiguredSource(t *testing.T) {
	u := newUpstream(t)
	config := writeConfig(t, u)

	err := execute("--config", config, "sync", "nocodb", "b2share", "--date", "2024-01-01")
	require.ErrorContains(t, err, "not configured")

	err = execute("--config", config, "sync", "ftp", "b2share", "--date", "2024-01-01")
	require.ErrorContains(t, err, "unknown data source")
}

func TestServiceSuggestion(t *testing.T) {
	u := newUpstream(t)
	config := writeConfig(t, u)

	err := execute("--config", config, "service", "b2shar")
	require.ErrorContains(t, err, "did you mean: b2share")

	err = execute("--config", config, "service", "zzzzzz")
	require.EqualError(t, err, "no service 'zzzzzz'")
}

func TestSendMeasurements(t *testing.T) {
	u := newUpstream(t)
	config := writeConfig(t, u)

	form := filepath.Join(t.TempDir(), "form.json5")
	require.NoError(t, os.WriteFile(form, []byte(`[
		// filled in by hand
		{kpi: "Visits", date: "2024-01-01", value: 5},
		{kpi: "Downloads", date: "2024-01-01", value: null},
	]`), 0600))

	err := execute("--config", config, "measurements", "send", "b2share", form)
	require.NoError(t, err)

	u.mu.Lock()
	defer u.mu.Unlock()
	require.JSONEq(t, `[
		{"kpi": "Visits", "date": "2024-01-01", "value": 5},
		{"kpi": "Downloads", "date": "2024-01-01", "value": null}
	]`, string(u.measurement))
}
