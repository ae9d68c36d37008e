package ports

import (
	"context"
	"time"

	"lupa/internal/domain/camara"
)

// Extractor exposes typed accessors over the upstream open-data API.
// Every accessor returns the unwrapped payload list of one page (or of the
// whole resource for unpaginated endpoints).
//
// BillAuthors and RollCallVotes are enrichment accessors: an upstream
// not-found answer yields an empty list, not an error.
type Extractor interface {
	Legislators(ctx context.Context) ([]camara.Raw, error)
	Expenses(ctx context.Context, legislatorID int64, year int, page int) ([]camara.Raw, error)
	Bills(ctx context.Context, from time.Time, to time.Time, page int) ([]camara.Raw, error)
	BillAuthors(ctx context.Context, billID int64) ([]camara.Raw, error)
	RollCalls(ctx context.Context, from time.Time, to time.Time, page int) ([]camara.Raw, error)
	RollCallVotes(ctx context.Context, rollCallID string) ([]camara.Raw, error)
}
