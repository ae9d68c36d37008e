package ingest

import (
	"context"
	"errors"
	"log/slog"

	"lupa/internal/bootstrap/logging"
	"lupa/internal/domain/camara"
	"lupa/internal/errs"
)

// FetchBills ingests bills presented in the trailing daysBack window. The
// range is split into API-sized sub-windows; each page is enriched with the
// bill's author list before ingestion. A failed sub-window is logged and the
// run continues with the next one.
func (s *Service) FetchBills(ctx context.Context, daysBack int) error {
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
		slog.String("component", "ingest.bills"),
		slog.Int("days_back", daysBack),
	)

	to := s.now()
	from := to.AddDate(0, 0, -daysBack)
	for _, w := range splitWindows(from, to, s.cfg.WindowDays) {
		windowCtx := logging.WithAttrs(logCtx,
			slog.String("window_from", w.from.Format("2006-01-02")),
			slog.String("window_to", w.to.Format("2006-01-02")),
		)
		if err := s.fetchBillsWindow(windowCtx, w); err != nil {
			logging.Error(windowCtx, "bills sub-window failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	logging.Info(logCtx, "bills run finished")
	return nil
}

func (s *Service) fetchBillsWindow(ctx context.Context, w window) error {
	for page := 1; page <= s.cfg.MaxPagesPerWindow; page++ {
		raw, err := s.extractor.Bills(ctx, w.from, w.to, page)
		if err != nil {
			return errs.Wrapf(err, "fetch bills page %d", page)
		}
		if len(raw) == 0 {
			return nil
		}

		for _, item := range raw {
			s.enrichBill(ctx, item)
		}

		if err := s.ingestor.IngestBills(ctx, raw); err != nil {
			return errs.Wrapf(err, "ingest bills page %d", page)
		}
		logging.Info(ctx, "bills page ingested", slog.Int("page", page), slog.Int("records", len(raw)))
	}

	logging.Warn(ctx, "bills page ceiling reached", slog.Int("max_pages", s.cfg.MaxPagesPerWindow))
	return nil
}

// enrichBill attaches the author list in place. An enrichment failure must
// not abort the page: the bill is still ingested, just without authors.
func (s *Service) enrichBill(ctx context.Context, item camara.Raw) {
	billID, ok := camara.RawInt(item, "id")
	if !ok {
		return
	}

	authors, err := s.extractor.BillAuthors(ctx, billID)
	if err != nil {
		logging.Warn(ctx, "author enrichment failed",
			slog.Int64("bill_id", billID),
			slog.Any("err", errs.Loggable(err)),
		)
		return
	}
	item["autores"] = authors
}
