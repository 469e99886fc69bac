package scorpion

import (
	"context"
	"fmt"
	"net/url"
	"scorpion-client/lib/restyutil"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/scorpion")

// measurement date bounds are sent as UTC instants covering the whole day
const (
	startOfDay = "T00:00:00Z"
	endOfDay   = "T23:59:59Z"
)

// Client is a typed client for the scorpion api.
type Client struct {
	session *session
}

func NewClient(baseUrl, apiKey string) (*Client, error) {
	s, err := newSession(baseUrl, apiKey)
	if err != nil {
		return nil, err
	}
	return &Client{session: s}, nil
}

// SetDumpOutput writes every exchange with the api to out.
func (c *Client) SetDumpOutput(out restyutil.Output) {
	restyutil.AttachOutput(c.session.http, "scorpion", out)
}

func (c *Client) UserDetails(ctx context.Context) (UserDetails, error) {
	ctx, span := tracer.Start(ctx, "client:UserDetails")
	defer span.End()

	body, err := c.session.get(ctx, "/aai/details", nil)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return UserDetails{}, err
	}

	var details UserDetails
	err = decode(body, &details)
	if err != nil {
		span.SetStatus(codes.Error, "failed to decode")
		return UserDetails{}, err
	}
	return details, nil
}

func (c *Client) Service(ctx context.Context, abbreviation string) (Service, error) {
	ctx, span := tracer.Start(ctx, "client:Service")
	defer span.End()
	span.SetAttributes(attribute.String("scorpion.service", abbreviation))

	services, err := c.fetchServices(ctx, url.Values{"service": {abbreviation}})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Service{}, err
	}
	if len(services) == 0 {
		span.SetStatus(codes.Error, "empty result")
		return Service{}, fmt.Errorf("service %q: %w", abbreviation, ErrEmptyResult)
	}
	return services[0], nil
}

// Services lists the services of every provider the caller belongs to.
func (c *Client) Services(ctx context.Context) ([]Service, error) {
	ctx, span := tracer.Start(ctx, "client:Services")
	defer span.End()

	details, err := c.UserDetails(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to get user details")
		return nil, err
	}

	services, err := c.fetchServices(ctx, url.Values{
		"provider": {strings.Join(details.Providers, ",")},
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return services, nil
}

func (c *Client) AllServices(ctx context.Context) ([]Service, error) {
	ctx, span := tracer.Start(ctx, "client:AllServices")
	defer span.End()

	services, err := c.fetchServices(ctx, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return services, nil
}

func (c *Client) fetchServices(ctx context.Context, query url.Values) ([]Service, error) {
	body, err := c.session.get(ctx, "/api/v1/services", query)
	if err != nil {
		return nil, err
	}
	var envelope resultEnvelope[Service]
	err = decode(body, &envelope)
	if err != nil {
		return nil, err
	}
	return envelope.Result, nil
}

// ServiceIndicators lists the selected indicators of a service. An
// indicator appears once for every one of its categories that matches the
// service category, so it may appear zero or several times.
func (c *Client) ServiceIndicators(ctx context.Context, service Service) ([]Indicator, error) {
	ctx, span := tracer.Start(ctx, "client:ServiceIndicators")
	defer span.End()
	span.SetAttributes(attribute.String("scorpion.service", service.Abbreviation))

	payloads, err := c.fetchIndicators(ctx, url.Values{"service": {service.Abbreviation}})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var out []Indicator
	for _, indicator := range payloads {
		for _, category := range indicator.Categories {
			if category.Name != service.Category {
				continue
			}
			necessity := NecessityOptional
			if category.Necessity != nil && *category.Necessity != "" {
				necessity = *category.Necessity
			}
			out = append(out, Indicator{
				Name:        indicator.Name,
				Necessity:   necessity,
				Description: indicator.Description,
			})
		}
	}
	return out, nil
}

// CategoryIndicators lists the selected indicators of a category. The
// necessity always comes from the first category attached to the indicator.
func (c *Client) CategoryIndicators(ctx context.Context, category string) ([]Indicator, error) {
	ctx, span := tracer.Start(ctx, "client:CategoryIndicators")
	defer span.End()
	span.SetAttributes(attribute.String("scorpion.category", category))

	payloads, err := c.fetchIndicators(ctx, url.Values{"category": {category}})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]Indicator, 0, len(payloads))
	for _, indicator := range payloads {
		if len(indicator.Categories) == 0 {
			span.SetStatus(codes.Error, "indicator without categories")
			return nil, fmt.Errorf("categories of indicator %q: %w", indicator.Name, ErrEmptyResult)
		}
		necessity := indicator.Categories[0].Necessity
		if necessity == nil {
			span.SetStatus(codes.Error, "null necessity")
			return nil, &DecodeError{Field: "categories[0].necessity", Err: ErrNullField}
		}
		out = append(out, Indicator{
			Name:        indicator.Name,
			Necessity:   *necessity,
			Description: indicator.Description,
		})
	}
	return out, nil
}

func (c *Client) fetchIndicators(ctx context.Context, query url.Values) ([]indicatorPayload, error) {
	body, err := c.session.get(ctx, "/api/v1/indicators", query)
	if err != nil {
		return nil, err
	}
	return decodeSelected(body)
}

// PrepareIndicatorForm creates an empty measurement for every indicator of
// the service on every date, ordered by date and then by indicator.
func (c *Client) PrepareIndicatorForm(ctx context.Context, service Service, dates []string) ([]IndicatorValue, error) {
	ctx, span := tracer.Start(ctx, "client:PrepareIndicatorForm")
	defer span.End()

	indicators, err := c.ServiceIndicators(ctx, service)
	if err != nil {
		span.SetStatus(codes.Error, "failed to get service indicators")
		return nil, err
	}

	form := make([]IndicatorValue, 0, len(dates)*len(indicators))
	for _, date := range dates {
		for _, indicator := range indicators {
			form = append(form, IndicatorValue{
				Kpi:  indicator.Name,
				Date: date,
			})
		}
	}
	return form, nil
}

func (c *Client) SendMeasurements(ctx context.Context, abbreviation string, form []IndicatorValue) error {
	ctx, span := tracer.Start(ctx, "client:SendMeasurements")
	defer span.End()
	span.SetAttributes(
		attribute.String("scorpion.service", abbreviation),
		attribute.Int("scorpion.measurements", len(form)),
	)

	if form == nil {
		form = []IndicatorValue{}
	}
	_, err := c.session.post(ctx, "/api/v1/measurements", url.Values{"service": {abbreviation}}, form)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Measurements fetches the measurements of a service between two dates
// (YYYY-MM-DD), both inclusive. A nil indicator fetches every indicator.
func (c *Client) Measurements(ctx context.Context, abbreviation string, indicator *string, startDate, endDate string) ([]IndicatorValue, error) {
	ctx, span := tracer.Start(ctx, "client:Measurements")
	defer span.End()
	span.SetAttributes(attribute.String("scorpion.service", abbreviation))

	query := url.Values{
		"service":    {abbreviation},
		"start_date": {startDate + startOfDay},
		"end_date":   {endDate + endOfDay},
	}
	if indicator != nil {
		query.Set("indicators", *indicator)
	}

	body, err := c.session.get(ctx, "/api/v1/measurements", query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var envelope resultEnvelope[IndicatorValue]
	err = decode(body, &envelope)
	if err != nil {
		span.SetStatus(codes.Error, "failed to decode")
		return nil, err
	}
	return envelope.Result, nil
}
