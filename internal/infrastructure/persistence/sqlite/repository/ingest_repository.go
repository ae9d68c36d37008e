package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lupa/internal/errs"
	"lupa/internal/infrastructure/persistence/sqlite/model"
	"lupa/internal/ports"
)

// IngestRepository implements ports.IngestRepository over gorm/sqlite.
// Upserts use ON CONFLICT on the natural key and overwrite all non-key
// columns, so re-ingesting an external ID never creates a duplicate row.
type IngestRepository struct {
	db *gorm.DB
}

var _ ports.IngestRepository = (*IngestRepository)(nil)

func NewIngestRepository(db *gorm.DB) *IngestRepository {
	return &IngestRepository{db: db}
}

func (r *IngestRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (r *IngestRepository) UpsertParties(ctx context.Context, items []ports.PartyUpsert) error {
	if len(items) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	now := nowRFC3339()
	rows := make([]model.Party, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.Party{
			ID:        item.ID,
			Acronym:   item.Acronym,
			Name:      item.Name,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"acronym", "name", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "upsert parties")
	}
	return nil
}

func (r *IngestRepository) UpsertLegislators(ctx context.Context, items []ports.LegislatorUpsert) error {
	if len(items) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	now := nowRFC3339()
	rows := make([]model.Legislator, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.Legislator{
			ID:            item.ID,
			Name:          item.Name,
			LegalName:     item.LegalName,
			Region:        item.Region,
			PartyID:       item.PartyID,
			LegislatureID: item.LegislatureID,
			Email:         item.Email,
			PhotoURL:      item.PhotoURL,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "legal_name", "region", "party_id", "legislature_id", "email", "photo_url", "updated_at",
		}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "upsert legislators")
	}
	return nil
}

func (r *IngestRepository) UpsertCompanies(ctx context.Context, items []ports.CompanyUpsert) error {
	if len(items) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	now := nowRFC3339()
	rows := make([]model.Company, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.Company{
			TaxID:     item.TaxID,
			TradeName: item.TradeName,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tax_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"trade_name", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "upsert companies")
	}
	return nil
}

func (r *IngestRepository) UpsertExpenses(ctx context.Context, items []ports.ExpenseUpsert) error {
	if len(items) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	now := nowRFC3339()
	rows := make([]model.Expense, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.Expense{
			ExtID:        item.ExtID,
			LegislatorID: item.LegislatorID,
			CompanyTaxID: item.CompanyTaxID,
			Amount:       item.Amount,
			IssuedOn:     item.IssuedOn,
			ExpenseType:  item.ExpenseType,
			DocumentURL:  item.DocumentURL,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ext_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"legislator_id", "company_tax_id", "amount", "issued_on", "expense_type", "document_url", "updated_at",
		}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "upsert expenses")
	}
	return nil
}

func (r *IngestRepository) UpsertBills(ctx context.Context, items []ports.BillUpsert) error {
	if len(items) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	now := nowRFC3339()
	rows := make([]model.Bill, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.Bill{
			ID:          item.ID,
			TypeAcronym: item.TypeAcronym,
			TypeCode:    item.TypeCode,
			Number:      item.Number,
			Year:        item.Year,
			Summary:     item.Summary,
			PresentedAt: item.PresentedAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type_acronym", "type_code", "number", "year", "summary", "presented_at", "updated_at",
		}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "upsert bills")
	}
	return nil
}

func (r *IngestRepository) UpsertRollCalls(ctx context.Context, items []ports.RollCallUpsert) error {
	if len(items) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	now := nowRFC3339()
	rows := make([]model.RollCall, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.RollCall{
			ID:          item.ID,
			Timestamp:   item.Timestamp,
			Body:        item.Body,
			Approved:    item.Approved,
			Description: item.Description,
			BillID:      item.BillID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"timestamp", "body", "approved", "description", "bill_id", "updated_at",
		}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "upsert roll calls")
	}
	return nil
}

func (r *IngestRepository) ListLegislatorIDs(ctx context.Context) ([]int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := db.Model(&model.Legislator{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, errs.Wrap(err, "list legislator ids")
	}
	return ids, nil
}

func (r *IngestRepository) FilterKnownLegislators(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var found []int64
	if err := db.Model(&model.Legislator{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, errs.Wrap(err, "filter known legislators")
	}

	known := make(map[int64]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	return known, nil
}

// ReplaceBillAuthors deletes the authorship set of every bill in billIDs and
// inserts the given authors. Callers filter and dedupe authors beforehand.
func (r *IngestRepository) ReplaceBillAuthors(ctx context.Context, billIDs []int64, authors []ports.BillAuthorCreate) error {
	if len(billIDs) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Where("bill_id IN ?", billIDs).Delete(&model.BillAuthor{}).Error; err != nil {
		return errs.Wrap(err, "delete bill authors")
	}
	if len(authors) == 0 {
		return nil
	}

	now := nowRFC3339()
	rows := make([]model.BillAuthor, 0, len(authors))
	for _, author := range authors {
		rows = append(rows, model.BillAuthor{
			BillID:       author.BillID,
			LegislatorID: author.LegislatorID,
			CreatedAt:    now,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "insert bill authors")
	}
	return nil
}

// ReplaceRollCallVotes deletes the vote set of every roll call in rollCallIDs
// and inserts the given votes. Callers filter and dedupe votes beforehand.
func (r *IngestRepository) ReplaceRollCallVotes(ctx context.Context, rollCallIDs []string, votes []ports.VoteCreate) error {
	if len(rollCallIDs) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Where("roll_call_id IN ?", rollCallIDs).Delete(&model.Vote{}).Error; err != nil {
		return errs.Wrap(err, "delete roll call votes")
	}
	if len(votes) == 0 {
		return nil
	}

	now := nowRFC3339()
	rows := make([]model.Vote, 0, len(votes))
	for _, vote := range votes {
		rows = append(rows, model.Vote{
			RollCallID:   vote.RollCallID,
			LegislatorID: vote.LegislatorID,
			Value:        vote.Value,
			CreatedAt:    now,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "insert roll call votes")
	}
	return nil
}

func (r *IngestRepository) AppendDeadLetters(ctx context.Context, entries []ports.DeadLetterCreate) error {
	if len(entries) == 0 {
		return nil
	}
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	now := nowRFC3339()
	rows := make([]model.DeadLetter, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, model.DeadLetter{
			ID:           uuid.NewString(),
			OriginSource: entry.OriginSource,
			Payload:      entry.Payload,
			ErrorMessage: entry.ErrorMessage,
			ErrorType:    entry.ErrorType,
			CreatedAt:    now,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "append dead letters")
	}
	return nil
}

func (r *IngestRepository) ListDeadLetters(ctx context.Context, includeResolved bool, limit int) ([]ports.DeadLetter, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.DeadLetter{}).Order("created_at desc")
	if !includeResolved {
		query = query.Where("resolved = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.DeadLetter
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "list dead letters")
	}

	items := make([]ports.DeadLetter, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DeadLetter{
			ID:           row.ID,
			OriginSource: row.OriginSource,
			Payload:      row.Payload,
			ErrorMessage: row.ErrorMessage,
			ErrorType:    row.ErrorType,
			RetryCount:   row.RetryCount,
			Resolved:     row.Resolved,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *IngestRepository) ResolveDeadLetter(ctx context.Context, id string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.DeadLetter{}).Where("id = ?", id).Update("resolved", true)
	if result.Error != nil {
		return errs.Wrap(result.Error, "resolve dead letter")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDeadLetterNotFound
	}
	return nil
}
