package ingest

import (
	"context"
	"errors"

	"lupa/internal/domain/camara"
	"lupa/internal/errs"
	"lupa/internal/ports"
)

const originLegislators = "camara_deputados"

func (ing *Ingestor) IngestLegislators(ctx context.Context, raw []camara.Raw) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if len(raw) == 0 {
		return nil
	}

	var legislators []ports.LegislatorUpsert
	var rejects []camara.Reject
	parties := make(map[int64]ports.PartyUpsert)
	var partyOrder []int64

	for _, item := range raw {
		rec, rej := camara.ValidateLegislator(item)
		if rej != nil {
			rejects = append(rejects, *rej)
			continue
		}

		var partyID *int64
		if rec.Party != nil {
			if _, seen := parties[rec.Party.ID]; !seen {
				partyOrder = append(partyOrder, rec.Party.ID)
			}
			parties[rec.Party.ID] = ports.PartyUpsert{
				ID:      rec.Party.ID,
				Acronym: rec.Party.Acronym,
				Name:    rec.Party.Name,
			}
			id := rec.Party.ID
			partyID = &id
		}

		legislators = append(legislators, ports.LegislatorUpsert{
			ID:            rec.ID,
			Name:          rec.Name,
			LegalName:     rec.LegalName,
			Region:        rec.Region,
			PartyID:       partyID,
			LegislatureID: rec.LegislatureID,
			Email:         rec.Email,
			PhotoURL:      rec.PhotoURL,
		})
	}

	legislators = dedupeLast(legislators, func(l ports.LegislatorUpsert) int64 { return l.ID })
	partyList := make([]ports.PartyUpsert, 0, len(partyOrder))
	for _, id := range partyOrder {
		partyList = append(partyList, parties[id])
	}
	dead := deadLetters(originLegislators, rejects)

	// Parties first: legislators reference them.
	if err := ing.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := ing.repo.UpsertParties(txCtx, partyList); err != nil {
			return err
		}
		if err := ing.repo.UpsertLegislators(txCtx, legislators); err != nil {
			return err
		}
		return ing.repo.AppendDeadLetters(txCtx, dead)
	}); err != nil {
		return errs.Wrap(err, "ingest legislators batch")
	}
	return nil
}
