package ports

import (
	"context"
	"errors"
)

var ErrDeadLetterNotFound = errors.New("dead letter entry not found")

type PartyUpsert struct {
	ID      int64
	Acronym string
	Name    string
}

type LegislatorUpsert struct {
	ID            int64
	Name          string
	LegalName     string
	Region        string
	PartyID       *int64
	LegislatureID *int64
	Email         *string
	PhotoURL      *string
}

type CompanyUpsert struct {
	TaxID     string
	TradeName *string
}

type ExpenseUpsert struct {
	ExtID        int64
	LegislatorID int64
	CompanyTaxID *string
	Amount       string
	IssuedOn     *string
	ExpenseType  *string
	DocumentURL  *string
}

type BillUpsert struct {
	ID          int64
	TypeAcronym string
	TypeCode    int64
	Number      int64
	Year        int64
	Summary     string
	PresentedAt *string
}

type BillAuthorCreate struct {
	BillID       int64
	LegislatorID int64
}

type RollCallUpsert struct {
	ID          string
	Timestamp   string
	Body        string
	Approved    *bool
	Description string
	BillID      *int64
}

type VoteCreate struct {
	RollCallID   string
	LegislatorID int64
	Value        string
}

type DeadLetterCreate struct {
	OriginSource string
	Payload      string
	ErrorMessage string
	ErrorType    string
}

type DeadLetter struct {
	ID           string
	OriginSource string
	Payload      string
	ErrorMessage string
	ErrorType    string
	RetryCount   int
	Resolved     bool
	CreatedAt    string
}

// IngestRepository is the persistence surface of the ingestion pipeline.
// Upserts are idempotent writes keyed on the upstream natural key: insert
// when the key is new, overwrite all non-key columns when it exists.
// Every method honors a transaction handle carried in context.
type IngestRepository interface {
	UpsertParties(ctx context.Context, items []PartyUpsert) error
	UpsertLegislators(ctx context.Context, items []LegislatorUpsert) error
	UpsertCompanies(ctx context.Context, items []CompanyUpsert) error
	UpsertExpenses(ctx context.Context, items []ExpenseUpsert) error
	UpsertBills(ctx context.Context, items []BillUpsert) error
	UpsertRollCalls(ctx context.Context, items []RollCallUpsert) error

	ListLegislatorIDs(ctx context.Context) ([]int64, error)
	FilterKnownLegislators(ctx context.Context, ids []int64) (map[int64]struct{}, error)

	ReplaceBillAuthors(ctx context.Context, billIDs []int64, authors []BillAuthorCreate) error
	ReplaceRollCallVotes(ctx context.Context, rollCallIDs []string, votes []VoteCreate) error

	AppendDeadLetters(ctx context.Context, entries []DeadLetterCreate) error
	ListDeadLetters(ctx context.Context, includeResolved bool, limit int) ([]DeadLetter, error)
	ResolveDeadLetter(ctx context.Context, id string) error
}
