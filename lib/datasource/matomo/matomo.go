// Package matomo reads visit summaries from a Matomo instance.
package matomo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"scorpion-client/lib/datasource"
	"scorpion-client/lib/restyutil"
	"scorpion-client/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// DefaultMapping is the mapping used when none is configured. It maps the
// fields of VisitsSummary.get to scorpion indicator names, an empty name
// drops the field.
func DefaultMapping() map[string]string {
	return map[string]string{
		"avg_time_on_site":     "Visits Duration",
		"bounce_count":         "",
		"bounce_rate":          "",
		"max_actions":          "",
		"nb_actions":           "Actions",
		"nb_actions_per_visit": "Actions per Visit",
		"nb_uniq_visitors":     "Visitors",
		"nb_users":             "",
		"nb_visits":            "Visits",
		"nb_visits_converted":  "",
		"sum_visit_length":     "",
	}
}

type Options struct {
	// BaseUrl is the full url of the api endpoint, usually ending in /index.php
	BaseUrl   string            `json:"base_url"`
	AuthToken string            `json:"auth_token"`
	Mapping   map[string]string `json:"mapping"`
}

type Matomo struct {
	baseUrl   string
	authToken string
	mapping   map[string]string
	http      *resty.Client
}

func New(opts Options) *Matomo {
	mapping := opts.Mapping
	if len(mapping) == 0 {
		mapping = DefaultMapping()
	}

	client := resty.New()
	telemetry.InstrumentResty(client, "datasource/matomo/http")

	return &Matomo{
		baseUrl:   opts.BaseUrl,
		authToken: opts.AuthToken,
		mapping:   mapping,
		http:      client,
	}
}

// SetDumpOutput writes every exchange with matomo to out.
func (m *Matomo) SetDumpOutput(out restyutil.Output) {
	restyutil.AttachOutput(m.http, "matomo", out)
}

func requireKeys(config datasource.Config, keys ...string) error {
	for _, k := range keys {
		if _, ok := config[k]; !ok {
			return fmt.Errorf("missing config key %q", k)
		}
	}
	return nil
}

// Extract fetches VisitsSummary.get for the `site_id`, `period` and `date`
// given in config.
func (m *Matomo) Extract(ctx context.Context, config datasource.Config) (any, error) {
	err := requireKeys(config, "site_id", "period", "date")
	if err != nil {
		return nil, err
	}

	res, err := m.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module": "API",
			"method": "VisitsSummary.get",
			"idSite": config["site_id"],
			"period": config["period"],
			"date":   config["date"],
			"format": "json",
		}).
		SetFormData(map[string]string{
			"token_auth": m.authToken,
		}).
		Post(m.baseUrl)
	if err != nil {
		return nil, fmt.Errorf("fetch visits summary: %w", err)
	}
	err = restyutil.CheckResponse(res)
	if err != nil {
		return nil, err
	}

	var data any
	err = json.Unmarshal(res.Body(), &data)
	if err != nil {
		return nil, fmt.Errorf("parse visits summary: %w", err)
	}

	// matomo reports api errors with a 200 status
	if obj, ok := data.(map[string]any); ok && obj["result"] == "error" {
		return nil, fmt.Errorf("matomo api: %v", obj["message"])
	}

	return data, nil
}

// Transform renames the mapped fields of a visits summary and rounds their
// values to integers.
func (m *Matomo) Transform(data any) (datasource.Result, error) {
	summary, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a visits summary object, got %T", data)
	}

	result := datasource.Result{}
	for key, value := range summary {
		name := m.mapping[key]
		if name == "" {
			continue
		}
		n, err := round(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		result[name] = n
	}
	return result, nil
}

// round rounds to the nearest integer, halves go to the even neighbour.
func round(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(math.RoundToEven(v)), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return int(math.RoundToEven(f)), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", value)
}
