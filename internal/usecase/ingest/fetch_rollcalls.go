package ingest

import (
	"context"
	"errors"
	"log/slog"

	"lupa/internal/bootstrap/logging"
	"lupa/internal/domain/camara"
	"lupa/internal/errs"
)

// FetchRollCalls ingests roll calls from the trailing daysBack window,
// enriching each with its individual vote list. Same windowing and failure
// isolation as FetchBills.
func (s *Service) FetchRollCalls(ctx context.Context, daysBack int) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if daysBack <= 0 {
		return errors.New("days back must be positive")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "ingest.rollcalls"),
		slog.Int("days_back", daysBack),
	)

	to := s.now()
	from := to.AddDate(0, 0, -daysBack)
	for _, w := range splitWindows(from, to, s.cfg.WindowDays) {
		windowCtx := logging.WithAttrs(logCtx,
			slog.String("window_from", w.from.Format("2006-01-02")),
			slog.String("window_to", w.to.Format("2006-01-02")),
		)
		if err := s.fetchRollCallsWindow(windowCtx, w); err != nil {
			logging.Error(windowCtx, "roll calls sub-window failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	logging.Info(logCtx, "roll calls run finished")
	return nil
}

func (s *Service) fetchRollCallsWindow(ctx context.Context, w window) error {
	for page := 1; page <= s.cfg.MaxPagesPerWindow; page++ {
		raw, err := s.extractor.RollCalls(ctx, w.from, w.to, page)
		if err != nil {
			return errs.Wrapf(err, "fetch roll calls page %d", page)
		}
		if len(raw) == 0 {
			return nil
		}

		for _, item := range raw {
			s.enrichRollCall(ctx, item)
		}

		if err := s.ingestor.IngestRollCalls(ctx, raw); err != nil {
			return errs.Wrapf(err, "ingest roll calls page %d", page)
		}
		logging.Info(ctx, "roll calls page ingested", slog.Int("page", page), slog.Int("records", len(raw)))
	}

	logging.Warn(ctx, "roll calls page ceiling reached", slog.Int("max_pages", s.cfg.MaxPagesPerWindow))
	return nil
}

// enrichRollCall attaches the individual vote list in place; a failure is
// logged and the roll call is ingested without votes.
func (s *Service) enrichRollCall(ctx context.Context, item camara.Raw) {
	rollCallID, ok := camara.RawString(item, "id")
	if !ok {
		return
	}

	votes, err := s.extractor.RollCallVotes(ctx, rollCallID)
	if err != nil {
		logging.Warn(ctx, "vote enrichment failed",
			slog.String("roll_call_id", rollCallID),
			slog.Any("err", errs.Loggable(err)),
		)
		return
	}
	item["votos"] = votes
}
