package ingest

import (
	"context"
	"errors"
	"time"

	"lupa/internal/bootstrap/config"
	"lupa/internal/errs"
	"lupa/internal/ports"
)

// Service is the fetch orchestrator: one entry point per upstream resource,
// each safe to invoke repeatedly and concurrently with itself for different
// windows. Failures inside one sub-window or one legislator's fan-out unit
// are logged and never abort siblings; re-running recovers lost work.
type Service struct {
	extractor ports.Extractor
	ingestor  *Ingestor
	repo      ports.IngestRepository
	cfg       config.IngestConfig

	// Injectable for window tests.
	now func() time.Time
}

func NewService(extractor ports.Extractor, ingestor *Ingestor, repo ports.IngestRepository, cfg config.Config) *Service {
	return &Service{
		extractor: extractor,
		ingestor:  ingestor,
		repo:      repo,
		cfg:       cfg.Ingest,
		now:       time.Now,
	}
}

func (s *Service) ListDeadLetters(ctx context.Context, includeResolved bool, limit int) ([]ports.DeadLetter, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	items, err := s.repo.ListDeadLetters(ctx, includeResolved, limit)
	if err != nil {
		return nil, errs.Wrap(err, "list dead letters")
	}
	return items, nil
}

func (s *Service) ResolveDeadLetter(ctx context.Context, id string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if id == "" {
		return errors.New("dead letter id is required")
	}

	if err := s.repo.ResolveDeadLetter(ctx, id); err != nil {
		return errs.Wrap(err, "resolve dead letter")
	}
	return nil
}
