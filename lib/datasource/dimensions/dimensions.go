// Package dimensions is a placeholder for citation counts from Dimensions,
// it does not talk to the Dimensions api yet and reports fixed values.
package dimensions

import (
	"context"
	"scorpion-client/lib/datasource"
)

type Options struct {
	BaseUrl   string `json:"base_url"`
	AuthToken string `json:"auth_token"`
}

type Dimensions struct {
	baseUrl   string
	authToken string
}

func New(opts Options) *Dimensions {
	return &Dimensions{baseUrl: opts.BaseUrl, authToken: opts.AuthToken}
}

// TODO: query the Dimensions publications api for citations once an api key is provisioned.
func (d *Dimensions) Extract(context.Context, datasource.Config) (any, error) {
	return map[string]any{"citations": 42}, nil
}

func (d *Dimensions) Transform(any) (datasource.Result, error) {
	return datasource.Result{"Citations": 42}, nil
}
