package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/danthegoodman1/mstable/column"
	"github.com/danthegoodman1/mstable/datastore"
	"github.com/danthegoodman1/mstable/gologger"
	"github.com/danthegoodman1/mstable/utils"
	"github.com/google/uuid"
)

var logger = gologger.NewLogger()

func main() {
	if len(os.Args) < 2 {
		logger.Error().Msg("usage: mstable <table-path> [column ...]")
		os.Exit(2)
	}
	path, columns := os.Args[1], os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	reqID := uuid.NewString()
	ctx = context.WithValue(ctx, gologger.ReqIDKey, reqID)
	l := logger.With().Str(string(gologger.ReqIDKey), reqID).Logger()
	ctx = gologger.WithTable(l.WithContext(ctx), path)
	logger := l.With().Str("table", path).Logger()

	region, err := parseRegion(utils.REGION)
	if err != nil {
		logger.Error().Err(err).Msg("invalid REGION")
		os.Exit(2)
	}

	ds, err := datastore.FromEnv(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("error creating data store")
		os.Exit(1)
	}
	defer ds.Shutdown(ctx)

	mst, err := NewMSTable(ds)
	if err != nil {
		logger.Error().Err(err).Msg("error creating mstable")
		os.Exit(1)
	}

	reports, err := mst.DescribeTable(ctx, path, columns, region)
	if err != nil {
		code := column.CodeOf(err)
		logger.Error().Err(err).Str("code", code.String()).Msg("error describing table")
		ds.Shutdown(ctx)
		os.Exit(int(code))
	}

	for _, r := range reports {
		ev := logger.Info().Str("column", r.Name).Bool("exists", r.Exists).Str("code", r.Code.String())
		if r.Exists {
			ev = ev.Str("type", r.ElementType.String()).Bool("scalar", r.IsScalar).Bool("fixedShape", r.IsFixedShape).
				Str("shape", r.Shape.String()).Int("ndim", len(r.Shape)).Int("elements", r.NElements)
		}
		if r.Err != "" {
			ev = ev.Str("error", r.Err)
		}
		ev.Msg("column")
	}
}
