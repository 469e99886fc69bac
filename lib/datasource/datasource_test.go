package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingPlugin struct {
	extracted   []Config
	transformed []any
}

func (p *recordingPlugin) Extract(_ context.Context, config Config) (any, error) {
	p.extracted = append(p.extracted, config)
	return map[string]any{"raw": config["site_id"]}, nil
}

func (p *recordingPlugin) Transform(data any) (Result, error) {
	p.transformed = append(p.transformed, data)
	return Result{"Visits": 3}, nil
}

type extractOnly struct {
	Unimplemented
}

func (extractOnly) Extract(context.Context, Config) (any, error) {
	return "raw", nil
}

func TestDataSourceForwards(t *testing.T) {
	plugin := &recordingPlugin{}
	source := New("recording", plugin)
	require.Equal(t, "recording", source.Name())

	data, err := source.Extract(context.Background(), Config{"site_id": "1"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"raw": "1"}, data)
	require.Equal(t, []Config{{"site_id": "1"}}, plugin.extracted)

	result, err := source.Transform(data)
	require.NoError(t, err)
	require.Equal(t, Result{"Visits": 3}, result)
	require.Equal(t, []any{data}, plugin.transformed)
}

func TestDataSourceRun(t *testing.T) {
	plugin := &recordingPlugin{}
	result, err := New("recording", plugin).Run(context.Background(), Config{"site_id": "7"})
	require.NoError(t, err)
	require.Equal(t, Result{"Visits": 3}, result)
	require.Equal(t, []any{map[string]any{"raw": "7"}}, plugin.transformed)
}

func TestUnimplemented(t *testing.T) {
	source := New("nothing", Unimplemented{})

	_, err := source.Extract(context.Background(), nil)
	require.ErrorIs(t, err, ErrNotImplemented)

	_, err = source.Transform(nil)
	require.ErrorIs(t, err, ErrNotImplemented)

	partial := New("partial", extractOnly{})
	data, err := partial.Extract(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "raw", data)

	_, err = partial.Run(context.Background(), nil)
	require.True(t, errors.Is(err, ErrNotImplemented))
	require.Contains(t, err.Error(), "partial")
}
