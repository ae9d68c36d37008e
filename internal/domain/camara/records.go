// Package camara holds the validated record types and the per-record schema
// validation for the Câmara dos Deputados open-data API. Raw upstream JSON is
// converted into typed records or rejected; rejection is an explicit branch,
// not error control flow.
package camara

// Raw is one untyped upstream JSON record.
type Raw = map[string]any

// Reject categories mirror the dead-letter error taxonomy.
const (
	CategorySchema    = "SchemaValidationError"
	CategoryUnhandled = "UnhandledError"
)

// Reject carries a record that failed validation, with enough payload to
// diagnose and replay it from the dead-letter store.
type Reject struct {
	Payload  Raw
	Message  string
	Category string
}

type PartyRecord struct {
	ID      int64
	Acronym string
	Name    string
}

type LegislatorRecord struct {
	ID            int64
	Name          string
	LegalName     string
	Region        string
	LegislatureID *int64
	Email         *string
	PhotoURL      *string

	// Party is derived from the embedded party reference URI; nil when the
	// payload carries no resolvable party.
	Party *PartyRecord
}

type ExpenseRecord struct {
	ExtID        int64
	Amount       string
	IssuedOn     *string
	CompanyTaxID *string
	CompanyName  *string
	ExpenseType  *string
	DocumentURL  *string
}

type BillRecord struct {
	ID          int64
	TypeAcronym string
	TypeCode    int64
	Number      int64
	Year        int64
	Summary     string
	PresentedAt *string

	// AuthorIDs are legislator IDs parsed from the enrichment author list;
	// authors that are not deputies are skipped.
	AuthorIDs []int64
}

type VoteRecord struct {
	LegislatorID int64
	Value        string
}

type RollCallRecord struct {
	ID          string
	Timestamp   string
	Body        string
	Approved    *bool
	Description string
	BillID      *int64
	Votes       []VoteRecord
}
