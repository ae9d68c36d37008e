package ingest

import (
	"context"
	"errors"
	"log/slog"

	"lupa/internal/bootstrap/logging"
	"lupa/internal/errs"
)

// FetchLegislators ingests the current legislator roster in one batch.
// The endpoint returns the whole set, no pagination involved.
func (s *Service) FetchLegislators(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "ingest.legislators"))

	raw, err := s.extractor.Legislators(logCtx)
	if err != nil {
		return errs.Wrap(err, "fetch legislators")
	}
	if len(raw) == 0 {
		logging.Warn(logCtx, "upstream returned no legislators")
		return nil
	}

	if err := s.ingestor.IngestLegislators(logCtx, raw); err != nil {
		return errs.Wrap(err, "ingest legislators")
	}

	logging.Info(logCtx, "legislators run finished", slog.Int("records", len(raw)))
	return nil
}
