package app

import (
	"context"
	"io"

	"github.com/pitabwire/util"

	"github.com/corey/osmnames/internal/config"
)

// WithLogger builds the process logger from cfg and attaches it to ctx.
// Domain packages log through util.Log(ctx) and pick it up from there.
// An unknown level falls back to the library default.
func WithLogger(ctx context.Context, cfg config.Config, out io.Writer) context.Context {
	opts := []util.Option{util.WithLogNoColor(!cfg.LogColored)}
	if level, err := util.ParseLevel(cfg.LogLevel); err == nil {
		opts = append(opts, util.WithLogLevel(level))
	}
	if out != nil {
		opts = append(opts, util.WithLogOutput(out))
	}

	log := util.NewLogger(ctx, opts...)
	return util.ContextWithLogger(ctx, log)
}
