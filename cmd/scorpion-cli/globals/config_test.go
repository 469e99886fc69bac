package globals

import (
	"context"
	"os"
	"path/filepath"
	"scorpion-client/lib/configutil"
	"scorpion-client/lib/datasource"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandDate(t *testing.T) {
	extract := datasource.Config{"date": "{date}", "where": "(Date,eq,{date})", "limit": "1"}
	expanded := ExpandDate(extract, "2024-01-01")

	require.Equal(t, datasource.Config{
		"date":  "2024-01-01",
		"where": "(Date,eq,2024-01-01)",
		"limit": "1",
	}, expanded)
	require.Equal(t, "{date}", extract["date"])
}

func TestReadConfigSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scorpion.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		base_url: "https://scorpion.example/",
		api_key: "key",
		sources: {
			matomo: {
				options: {
					base_url: "https://matomo.example/index.php",
					auth_token: "token",
					mapping: {nb_visits: "Sessions"},
				},
				extract: {site_id: "1", period: "day", date: "{date}"},
			},
			dimensions: {options: {}},
		},
	}`), 0600))

	cfg, err := configutil.ReadRecursively[Config](path)
	require.NoError(t, err)
	require.Equal(t, "https://scorpion.example/", cfg.BaseUrl)
	require.NotNil(t, cfg.Sources.Matomo)
	require.Equal(t, map[string]string{"nb_visits": "Sessions"}, cfg.Sources.Matomo.Options.Mapping)
	require.Nil(t, cfg.Sources.NocoDB)

	source, extract, err := cfg.Source("matomo", "2024-03-01", nil)
	require.NoError(t, err)
	require.Equal(t, "matomo", source.Name())
	require.Equal(t, "2024-03-01", extract["date"])

	_, _, err = cfg.Source("nocodb", "2024-03-01", nil)
	require.ErrorContains(t, err, "not configured")

	dimensions, _, err := cfg.Source("dimensions", "2024-03-01", nil)
	require.NoError(t, err)
	result, err := dimensions.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, datasource.Result{"Citations": 42}, result)
}
