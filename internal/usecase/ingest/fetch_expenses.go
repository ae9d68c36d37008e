package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"lupa/internal/bootstrap/logging"
	"lupa/internal/errs"
)

// FetchExpenses ingests one year of expenses for every legislator known to
// the store, fanning out across legislators with a bounded pool. Each
// legislator paginates independently, pages strictly in order; a failed
// legislator is logged and does not abort its siblings.
func (s *Service) FetchExpenses(ctx context.Context, year int) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "ingest.expenses"),
		slog.Int("year", year),
	)

	ids, err := s.repo.ListLegislatorIDs(logCtx)
	if err != nil {
		return errs.Wrap(err, "list legislators for expense fan-out")
	}
	if len(ids) == 0 {
		logging.Warn(logCtx, "no legislators in store, run legislators ingestion first")
		return nil
	}

	logging.Info(logCtx, "starting expense fan-out",
		slog.Int("legislators", len(ids)),
		slog.Int("concurrency", s.cfg.Concurrency),
	)

	sem := semaphore.NewWeighted(int64(s.cfg.Concurrency))
	var wg sync.WaitGroup
	for _, id := range ids {
		if err := sem.Acquire(logCtx, 1); err != nil {
			wg.Wait()
			return errs.Wrap(err, "acquire fan-out slot")
		}

		wg.Add(1)
		go func(legislatorID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.fetchLegislatorExpenses(logCtx, legislatorID, year); err != nil {
				logging.Error(logCtx, "expense ingestion failed for legislator",
					slog.Int64("legislator_id", legislatorID),
					slog.Any("err", errs.Loggable(err)),
				)
			}
		}(id)
	}
	wg.Wait()

	logging.Info(logCtx, "expense fan-out finished")
	return nil
}

func (s *Service) fetchLegislatorExpenses(ctx context.Context, legislatorID int64, year int) error {
	for page := 1; page <= s.cfg.MaxPagesPerLegislator; page++ {
		raw, err := s.extractor.Expenses(ctx, legislatorID, year, page)
		if err != nil {
			return errs.Wrapf(err, "fetch expenses page %d", page)
		}
		if len(raw) == 0 {
			return nil
		}

		if err := s.ingestor.IngestExpenses(ctx, legislatorID, raw); err != nil {
			return errs.Wrapf(err, "ingest expenses page %d", page)
		}
	}

	logging.Warn(ctx, "expense page ceiling reached",
		slog.Int64("legislator_id", legislatorID),
		slog.Int("max_pages", s.cfg.MaxPagesPerLegislator),
	)
	return nil
}
