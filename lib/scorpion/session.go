package scorpion

import (
	"context"
	"fmt"
	"net/url"
	"scorpion-client/lib/restyutil"
	"scorpion-client/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const apiKeyHeader = "X-API-KEY"

// session holds everything http: the base url, the api key header and
// status code checking. It returns response bodies undecoded.
type session struct {
	baseUrl *url.URL
	http    *resty.Client
}

func newSession(baseUrl, apiKey string) (*session, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", baseUrl)
	}

	client := resty.New()
	client.SetHeader(apiKeyHeader, apiKey)
	client.SetHeader("Accept", "application/json")

	telemetry.InstrumentResty(client, "scorpion/http")

	return &session{baseUrl: parsed, http: client}, nil
}

// resolve joins path onto the base url the way a browser would, an
// absolute path replaces whatever path the base url has.
func (s *session) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return s.baseUrl.ResolveReference(ref).String(), nil
}

func (s *session) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	req := s.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	res, err := req.Execute(method, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	err = restyutil.CheckResponse(res)
	if err != nil {
		return nil, err
	}
	return res.Body(), nil
}

func (s *session) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return s.do(ctx, resty.MethodGet, path, query, nil)
}

func (s *session) post(ctx context.Context, path string, query url.Values, body any) ([]byte, error) {
	return s.do(ctx, resty.MethodPost, path, query, body)
}
