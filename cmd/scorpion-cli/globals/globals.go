package globals

import (
	"context"
	"scorpion-client/lib/restyutil"
	"scorpion-client/lib/scorpion"
)

type contextKey string

const key contextKey = "scorpion-cli.ctx"

type Value struct {
	Client *scorpion.Client
	Config Config
	// Dump is nil unless dump_dir is configured.
	Dump restyutil.Output
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
