package ingest

import (
	"context"
	"errors"

	"lupa/internal/domain/camara"
	"lupa/internal/errs"
	"lupa/internal/ports"
)

const originRollCalls = "camara_votacoes"

type voteKey struct {
	rollCallID   string
	legislatorID int64
}

// IngestRollCalls applies one enriched page of roll calls. The vote set of
// every roll call in the batch is replaced wholesale; votes from legislators
// absent from the store are filtered out silently.
func (ing *Ingestor) IngestRollCalls(ctx context.Context, raw []camara.Raw) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if len(raw) == 0 {
		return nil
	}

	var rollCalls []ports.RollCallUpsert
	var votes []ports.VoteCreate
	var rejects []camara.Reject

	for _, item := range raw {
		rec, rej := camara.ValidateRollCall(item)
		if rej != nil {
			rejects = append(rejects, *rej)
			continue
		}

		rollCalls = append(rollCalls, ports.RollCallUpsert{
			ID:          rec.ID,
			Timestamp:   rec.Timestamp,
			Body:        rec.Body,
			Approved:    rec.Approved,
			Description: rec.Description,
			BillID:      rec.BillID,
		})
		for _, vote := range rec.Votes {
			votes = append(votes, ports.VoteCreate{
				RollCallID:   rec.ID,
				LegislatorID: vote.LegislatorID,
				Value:        vote.Value,
			})
		}
	}

	rollCalls = dedupeLast(rollCalls, func(rc ports.RollCallUpsert) string { return rc.ID })
	rollCallIDs := make([]string, 0, len(rollCalls))
	for _, rc := range rollCalls {
		rollCallIDs = append(rollCallIDs, rc.ID)
	}

	candidates := make([]int64, 0, len(votes))
	for _, vote := range votes {
		candidates = append(candidates, vote.LegislatorID)
	}
	dead := deadLetters(originRollCalls, rejects)

	if err := ing.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := ing.repo.UpsertRollCalls(txCtx, rollCalls); err != nil {
			return err
		}

		known, err := ing.repo.FilterKnownLegislators(txCtx, candidates)
		if err != nil {
			return err
		}
		kept := make([]ports.VoteCreate, 0, len(votes))
		for _, vote := range votes {
			if _, ok := known[vote.LegislatorID]; ok {
				kept = append(kept, vote)
			}
		}
		// One vote per (roll call, legislator); the last occurrence wins.
		kept = dedupeLast(kept, func(v ports.VoteCreate) voteKey {
			return voteKey{rollCallID: v.RollCallID, legislatorID: v.LegislatorID}
		})

		if err := ing.repo.ReplaceRollCallVotes(txCtx, rollCallIDs, kept); err != nil {
			return err
		}
		return ing.repo.AppendDeadLetters(txCtx, dead)
	}); err != nil {
		return errs.Wrap(err, "ingest roll calls batch")
	}
	return nil
}
