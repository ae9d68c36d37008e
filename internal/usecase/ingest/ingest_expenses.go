package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lupa/internal/bootstrap/logging"
	"lupa/internal/domain/camara"
	"lupa/internal/errs"
	"lupa/internal/ports"
)

// IngestExpenses applies one page of expenses for one legislator. Records
// failing validation are dead-lettered; if the legislator is unknown to the
// store the valid records are dropped silently rather than violating the
// foreign reference (they reappear on a later run, once the legislator is
// ingested).
func (ing *Ingestor) IngestExpenses(ctx context.Context, legislatorID int64, raw []camara.Raw) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if len(raw) == 0 {
		return nil
	}

	origin := fmt.Sprintf("camara_gastos_%d", legislatorID)

	var expenses []ports.ExpenseUpsert
	var rejects []camara.Reject
	companies := make(map[string]ports.CompanyUpsert)
	var companyOrder []string

	for _, item := range raw {
		rec, rej := camara.ValidateExpense(item)
		if rej != nil {
			rejects = append(rejects, *rej)
			continue
		}

		if rec.CompanyTaxID != nil {
			taxID := *rec.CompanyTaxID
			if _, seen := companies[taxID]; !seen {
				companyOrder = append(companyOrder, taxID)
			}
			companies[taxID] = ports.CompanyUpsert{TaxID: taxID, TradeName: rec.CompanyName}
		}

		expenses = append(expenses, ports.ExpenseUpsert{
			ExtID:        rec.ExtID,
			LegislatorID: legislatorID,
			CompanyTaxID: rec.CompanyTaxID,
			Amount:       rec.Amount,
			IssuedOn:     rec.IssuedOn,
			ExpenseType:  rec.ExpenseType,
			DocumentURL:  rec.DocumentURL,
		})
	}

	expenses = dedupeLast(expenses, func(e ports.ExpenseUpsert) int64 { return e.ExtID })
	companyList := make([]ports.CompanyUpsert, 0, len(companyOrder))
	for _, taxID := range companyOrder {
		companyList = append(companyList, companies[taxID])
	}
	dead := deadLetters(origin, rejects)

	if err := ing.uow.WithTx(ctx, func(txCtx context.Context) error {
		known, err := ing.repo.FilterKnownLegislators(txCtx, []int64{legislatorID})
		if err != nil {
			return err
		}
		if _, ok := known[legislatorID]; !ok {
			logging.Warn(txCtx, "dropping expense batch for unknown legislator",
				slog.String("component", "ingest.expenses"),
				slog.Int64("legislator_id", legislatorID),
				slog.Int("dropped", len(expenses)),
			)
			expenses = nil
			companyList = nil
		}

		// Companies first: expenses reference them.
		if err := ing.repo.UpsertCompanies(txCtx, companyList); err != nil {
			return err
		}
		if err := ing.repo.UpsertExpenses(txCtx, expenses); err != nil {
			return err
		}
		return ing.repo.AppendDeadLetters(txCtx, dead)
	}); err != nil {
		return errs.Wrapf(err, "ingest expenses batch for legislator %d", legislatorID)
	}
	return nil
}
