// Package nocodb reads table records from a NocoDB instance.
package nocodb

import (
	"context"
	"encoding/json"
	"fmt"
	"scorpion-client/lib/datasource"
	"scorpion-client/lib/restyutil"
	"scorpion-client/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const DefaultTableId = "muok9y2gaj515xy"

func DefaultMapping() map[string]string {
	return map[string]string{
		"Visits": "Visits",
	}
}

type Options struct {
	// BaseUrl is the api root including its trailing slash, like
	// https://nocodb.example/api/v2/
	BaseUrl   string            `json:"base_url"`
	AuthToken string            `json:"auth_token"`
	TableId   string            `json:"table_id"`
	Mapping   map[string]string `json:"mapping"`
}

type NocoDB struct {
	baseUrl   string
	authToken string
	tableId   string
	mapping   map[string]string
	http      *resty.Client
}

func New(opts Options) *NocoDB {
	mapping := opts.Mapping
	if len(mapping) == 0 {
		mapping = DefaultMapping()
	}
	tableId := opts.TableId
	if tableId == "" {
		tableId = DefaultTableId
	}

	client := resty.New()
	telemetry.InstrumentResty(client, "datasource/nocodb/http")

	return &NocoDB{
		baseUrl:   opts.BaseUrl,
		authToken: opts.AuthToken,
		tableId:   tableId,
		mapping:   mapping,
		http:      client,
	}
}

// SetDumpOutput writes every exchange with nocodb to out.
func (n *NocoDB) SetDumpOutput(out restyutil.Output) {
	restyutil.AttachOutput(n.http, "nocodb", out)
}

// Extract lists the records of the table, config is passed through as
// query parameters (where, limit, ...).
func (n *NocoDB) Extract(ctx context.Context, config datasource.Config) (any, error) {
	res, err := n.http.R().
		SetContext(ctx).
		SetHeader("xc-token", n.authToken).
		SetQueryParams(config).
		Get(fmt.Sprintf("%stables/%s/records", n.baseUrl, n.tableId))
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	err = restyutil.CheckResponse(res)
	if err != nil {
		return nil, err
	}

	var data any
	err = json.Unmarshal(res.Body(), &data)
	if err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return data, nil
}

// Transform copies the `Value` of every record under each mapped name.
// Every mapped name reads the same `Value` column and later records
// overwrite earlier ones.
func (n *NocoDB) Transform(data any) (datasource.Result, error) {
	page, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a records page object, got %T", data)
	}
	rawList, ok := page["list"]
	if !ok {
		return nil, fmt.Errorf("records page has no list")
	}
	list, ok := rawList.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list to be an array, got %T", rawList)
	}

	result := datasource.Result{}
	for i, rawRecord := range list {
		record, ok := rawRecord.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: expected an object, got %T", i, rawRecord)
		}
		value, ok := record["Value"]
		if !ok {
			return nil, fmt.Errorf("record %d has no Value", i)
		}
		for _, name := range n.mapping {
			result[name] = value
		}
	}
	return result, nil
}
