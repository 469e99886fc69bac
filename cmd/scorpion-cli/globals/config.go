package globals

import (
	"fmt"
	"scorpion-client/lib/datasource"
	"scorpion-client/lib/datasource/dimensions"
	"scorpion-client/lib/datasource/matomo"
	"scorpion-client/lib/datasource/nocodb"
	"scorpion-client/lib/restyutil"
	"scorpion-client/lib/telemetry"
	"strings"
)

type SourceConfig[T any] struct {
	Options T `json:"options"`
	// Extract is passed to the source on every sync, the literal {date}
	// in a value is replaced with the date being synced.
	Extract datasource.Config `json:"extract"`
}

type SourcesConfig struct {
	Matomo     *SourceConfig[matomo.Options]     `json:"matomo"`
	NocoDB     *SourceConfig[nocodb.Options]     `json:"nocodb"`
	Dimensions *SourceConfig[dimensions.Options] `json:"dimensions"`
}

type Config struct {
	BaseUrl   string           `json:"base_url"`
	ApiKey    string           `json:"api_key"`
	DumpDir   string           `json:"dump_dir"`
	Telemetry telemetry.Config `json:"telemetry"`
	Sources   SourcesConfig    `json:"sources"`
}

// Source builds the named data source along with its extract parameters
// for date. dump may be nil.
func (c Config) Source(name, date string, dump restyutil.Output) (*datasource.DataSource, datasource.Config, error) {
	switch name {
	case "matomo":
		if c.Sources.Matomo == nil {
			break
		}
		plugin := matomo.New(c.Sources.Matomo.Options)
		if dump != nil {
			plugin.SetDumpOutput(dump)
		}
		return datasource.New(name, plugin), ExpandDate(c.Sources.Matomo.Extract, date), nil
	case "nocodb":
		if c.Sources.NocoDB == nil {
			break
		}
		plugin := nocodb.New(c.Sources.NocoDB.Options)
		if dump != nil {
			plugin.SetDumpOutput(dump)
		}
		return datasource.New(name, plugin), ExpandDate(c.Sources.NocoDB.Extract, date), nil
	case "dimensions":
		if c.Sources.Dimensions == nil {
			break
		}
		plugin := dimensions.New(c.Sources.Dimensions.Options)
		return datasource.New(name, plugin), ExpandDate(c.Sources.Dimensions.Extract, date), nil
	default:
		return nil, nil, fmt.Errorf("unknown data source '%s', expected one of matomo, nocodb, dimensions", name)
	}
	return nil, nil, fmt.Errorf("data source '%s' is not configured", name)
}

func ExpandDate(extract datasource.Config, date string) datasource.Config {
	out := make(datasource.Config, len(extract))
	for k, v := range extract {
		out[k] = strings.ReplaceAll(v, "{date}", date)
	}
	return out
}
