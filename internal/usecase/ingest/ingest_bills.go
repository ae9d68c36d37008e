package ingest

import (
	"context"
	"errors"

	"lupa/internal/domain/camara"
	"lupa/internal/errs"
	"lupa/internal/ports"
)

const originBills = "camara_proposicoes"

// IngestBills applies one enriched page of bills. The authorship set of
// every bill in the batch is replaced wholesale; authorships referencing
// legislators absent from the store are filtered out silently, they are
// association data, not rejectable records.
func (ing *Ingestor) IngestBills(ctx context.Context, raw []camara.Raw) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if len(raw) == 0 {
		return nil
	}

	var bills []ports.BillUpsert
	var authorships []ports.BillAuthorCreate
	var rejects []camara.Reject

	for _, item := range raw {
		rec, rej := camara.ValidateBill(item)
		if rej != nil {
			rejects = append(rejects, *rej)
			continue
		}

		bills = append(bills, ports.BillUpsert{
			ID:          rec.ID,
			TypeAcronym: rec.TypeAcronym,
			TypeCode:    rec.TypeCode,
			Number:      rec.Number,
			Year:        rec.Year,
			Summary:     rec.Summary,
			PresentedAt: rec.PresentedAt,
		})
		for _, legislatorID := range rec.AuthorIDs {
			authorships = append(authorships, ports.BillAuthorCreate{
				BillID:       rec.ID,
				LegislatorID: legislatorID,
			})
		}
	}

	bills = dedupeLast(bills, func(b ports.BillUpsert) int64 { return b.ID })
	billIDs := make([]int64, 0, len(bills))
	for _, bill := range bills {
		billIDs = append(billIDs, bill.ID)
	}

	candidates := make([]int64, 0, len(authorships))
	for _, authorship := range authorships {
		candidates = append(candidates, authorship.LegislatorID)
	}
	dead := deadLetters(originBills, rejects)

	if err := ing.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := ing.repo.UpsertBills(txCtx, bills); err != nil {
			return err
		}

		known, err := ing.repo.FilterKnownLegislators(txCtx, candidates)
		if err != nil {
			return err
		}
		kept := make([]ports.BillAuthorCreate, 0, len(authorships))
		for _, authorship := range authorships {
			if _, ok := known[authorship.LegislatorID]; ok {
				kept = append(kept, authorship)
			}
		}
		kept = dedupeLast(kept, func(a ports.BillAuthorCreate) [2]int64 {
			return [2]int64{a.BillID, a.LegislatorID}
		})

		if err := ing.repo.ReplaceBillAuthors(txCtx, billIDs, kept); err != nil {
			return err
		}
		return ing.repo.AppendDeadLetters(txCtx, dead)
	}); err != nil {
		return errs.Wrap(err, "ingest bills batch")
	}
	return nil
}
