package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lupa/internal/bootstrap/config"
	"lupa/internal/domain/camara"
	"lupa/internal/infrastructure/persistence/sqlite/model"
	"lupa/internal/ports"
)

// fakeExtractor records calls and serves canned pages. The expense fan-out
// invokes it concurrently, so call recording is locked.
type fakeExtractor struct {
	mu sync.Mutex

	legislators func() ([]camara.Raw, error)
	expenses    func(legislatorID int64, year int, page int) ([]camara.Raw, error)
	bills       func(from time.Time, to time.Time, page int) ([]camara.Raw, error)
	billAuthors func(billID int64) ([]camara.Raw, error)
	rollCalls   func(from time.Time, to time.Time, page int) ([]camara.Raw, error)
	votes       func(rollCallID string) ([]camara.Raw, error)

	billPages []window
}

var _ ports.Extractor = (*fakeExtractor)(nil)

func (f *fakeExtractor) Legislators(_ context.Context) ([]camara.Raw, error) {
	if f.legislators == nil {
		return nil, nil
	}
	return f.legislators()
}

func (f *fakeExtractor) Expenses(_ context.Context, legislatorID int64, year int, page int) ([]camara.Raw, error) {
	if f.expenses == nil {
		return nil, nil
	}
	return f.expenses(legislatorID, year, page)
}

func (f *fakeExtractor) Bills(_ context.Context, from time.Time, to time.Time, page int) ([]camara.Raw, error) {
	f.mu.Lock()
	f.billPages = append(f.billPages, window{from: from, to: to})
	f.mu.Unlock()
	if f.bills == nil {
		return nil, nil
	}
	return f.bills(from, to, page)
}

func (f *fakeExtractor) BillAuthors(_ context.Context, billID int64) ([]camara.Raw, error) {
	if f.billAuthors == nil {
		return nil, nil
	}
	return f.billAuthors(billID)
}

func (f *fakeExtractor) RollCalls(_ context.Context, from time.Time, to time.Time, page int) ([]camara.Raw, error) {
	if f.rollCalls == nil {
		return nil, nil
	}
	return f.rollCalls(from, to, page)
}

func (f *fakeExtractor) RollCallVotes(_ context.Context, rollCallID string) ([]camara.Raw, error) {
	if f.votes == nil {
		return nil, nil
	}
	return f.votes(rollCallID)
}

func newTestService(t *testing.T, extractor ports.Extractor) (*Service, *harness) {
	t.Helper()

	h := newHarness(t)
	svc := &Service{
		extractor: extractor,
		ingestor:  h.ingestor,
		repo:      h.repo,
		cfg: config.IngestConfig{
			PageSize:              100,
			WindowDays:            90,
			MaxPagesPerWindow:     10,
			MaxPagesPerLegislator: 10,
			Concurrency:           2,
		},
		now: func() time.Time { return day(2024, 6, 1) },
	}
	return svc, h
}

func TestFetchLegislators(t *testing.T) {
	fake := &fakeExtractor{
		legislators: func() ([]camara.Raw, error) {
			return []camara.Raw{
				{"id": float64(42), "nome": "Fulano", "siglaUf": "SP"},
				{"id": float64(77), "nome": "Beltrana", "siglaUf": "RJ"},
			}, nil
		},
	}
	svc, h := newTestService(t, fake)

	if err := svc.FetchLegislators(context.Background()); err != nil {
		t.Fatalf("FetchLegislators() error = %v", err)
	}

	ids, err := h.repo.ListLegislatorIDs(context.Background())
	if err != nil {
		t.Fatalf("ListLegislatorIDs() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != 42 || ids[1] != 77 {
		t.Fatalf("ids = %v, want [42 77]", ids)
	}
}

func TestFetchLegislatorsUpstreamError(t *testing.T) {
	fake := &fakeExtractor{
		legislators: func() ([]camara.Raw, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc, _ := newTestService(t, fake)

	if err := svc.FetchLegislators(context.Background()); err == nil {
		t.Fatal("FetchLegislators() error = nil, want propagated fetch error")
	}
}

func TestFetchBills(t *testing.T) {
	fake := &fakeExtractor{}
	fake.bills = func(_ time.Time, _ time.Time, page int) ([]camara.Raw, error) {
		switch page {
		case 1:
			return []camara.Raw{{"id": float64(10), "siglaTipo": "PL", "numero": float64(1), "ano": float64(2024)}}, nil
		case 2:
			return []camara.Raw{{"id": float64(11), "siglaTipo": "PEC", "numero": float64(2), "ano": float64(2024)}}, nil
		default:
			return nil, nil
		}
	}
	fake.billAuthors = func(billID int64) ([]camara.Raw, error) {
		return []camara.Raw{{"uri": "https://dadosabertos.camara.leg.br/api/v2/deputados/42"}}, nil
	}
	svc, h := newTestService(t, fake)
	h.seedLegislator(t, 42)

	if err := svc.FetchBills(context.Background(), 7); err != nil {
		t.Fatalf("FetchBills() error = %v", err)
	}

	var bills []model.Bill
	if err := h.db.Order("id asc").Find(&bills).Error; err != nil {
		t.Fatalf("load bills: %v", err)
	}
	if len(bills) != 2 || bills[0].ID != 10 || bills[1].ID != 11 {
		t.Fatalf("bills = %+v, want both pages ingested", bills)
	}

	var authors []model.BillAuthor
	if err := h.db.Find(&authors).Error; err != nil {
		t.Fatalf("load authors: %v", err)
	}
	if len(authors) != 2 {
		t.Fatalf("authors = %+v, want one per bill", authors)
	}

	// A 7-day request fits a single sub-window; three calls: two pages of
	// data plus the terminating empty page.
	if len(fake.billPages) != 3 {
		t.Fatalf("bill page fetches = %d, want 3", len(fake.billPages))
	}
	if !fake.billPages[0].from.Equal(day(2024, 5, 25)) || !fake.billPages[0].to.Equal(day(2024, 6, 1)) {
		t.Fatalf("window = [%s, %s]",
			fake.billPages[0].from.Format("2006-01-02"),
			fake.billPages[0].to.Format("2006-01-02"))
	}
}

func TestFetchBillsEnrichmentFailureTolerated(t *testing.T) {
	fake := &fakeExtractor{}
	fake.bills = func(_ time.Time, _ time.Time, page int) ([]camara.Raw, error) {
		if page == 1 {
			return []camara.Raw{{"id": float64(10), "siglaTipo": "PL", "numero": float64(1), "ano": float64(2024)}}, nil
		}
		return nil, nil
	}
	fake.billAuthors = func(billID int64) ([]camara.Raw, error) {
		return nil, errors.New("enrichment down")
	}
	svc, h := newTestService(t, fake)

	if err := svc.FetchBills(context.Background(), 7); err != nil {
		t.Fatalf("FetchBills() error = %v", err)
	}

	var bills []model.Bill
	if err := h.db.Find(&bills).Error; err != nil {
		t.Fatalf("load bills: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("bills = %+v, want bill ingested without authors", bills)
	}

	var authorCount int64
	if err := h.db.Model(&model.BillAuthor{}).Count(&authorCount).Error; err != nil {
		t.Fatalf("count authors: %v", err)
	}
	if authorCount != 0 {
		t.Fatalf("authors = %d, want 0", authorCount)
	}
}

func TestFetchBillsRequiresPositiveRange(t *testing.T) {
	svc, _ := newTestService(t, &fakeExtractor{})
	if err := svc.FetchBills(context.Background(), 0); err == nil {
		t.Fatal("FetchBills(0) error = nil, want range error")
	}
}

func TestFetchExpensesFanOutIsolation(t *testing.T) {
	fake := &fakeExtractor{}
	fake.expenses = func(legislatorID int64, year int, page int) ([]camara.Raw, error) {
		if legislatorID == 42 {
			return nil, errors.New("upstream down for this legislator")
		}
		if page == 1 {
			return []camara.Raw{{"idDocumento": float64(1), "valorLiquido": "150.00"}}, nil
		}
		return nil, nil
	}
	svc, h := newTestService(t, fake)
	h.seedLegislator(t, 42)
	h.seedLegislator(t, 77)

	// One legislator failing must not abort the run or its siblings.
	if err := svc.FetchExpenses(context.Background(), 2024); err != nil {
		t.Fatalf("FetchExpenses() error = %v", err)
	}

	var expenses []model.Expense
	if err := h.db.Find(&expenses).Error; err != nil {
		t.Fatalf("load expenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].LegislatorID != 77 {
		t.Fatalf("expenses = %+v, want sibling's page ingested", expenses)
	}
}

func TestFetchExpensesEmptyStore(t *testing.T) {
	calls := 0
	fake := &fakeExtractor{}
	fake.expenses = func(int64, int, int) ([]camara.Raw, error) {
		calls++
		return nil, nil
	}
	svc, _ := newTestService(t, fake)

	if err := svc.FetchExpenses(context.Background(), 2024); err != nil {
		t.Fatalf("FetchExpenses() error = %v", err)
	}
	if calls != 0 {
		t.Fatalf("extractor calls = %d, want none without legislators", calls)
	}
}

func TestFetchRollCalls(t *testing.T) {
	fake := &fakeExtractor{}
	fake.rollCalls = func(_ time.Time, _ time.Time, page int) ([]camara.Raw, error) {
		if page == 1 {
			return []camara.Raw{{"id": "10-1", "dataHoraRegistro": "2024-05-07T19:32:00", "siglaOrgao": "PLEN"}}, nil
		}
		return nil, nil
	}
	fake.votes = func(rollCallID string) ([]camara.Raw, error) {
		return []camara.Raw{{"tipoVoto": "Sim", "deputado_": camara.Raw{"id": float64(42)}}}, nil
	}
	svc, h := newTestService(t, fake)
	h.seedLegislator(t, 42)

	if err := svc.FetchRollCalls(context.Background(), 7); err != nil {
		t.Fatalf("FetchRollCalls() error = %v", err)
	}

	var rollCalls []model.RollCall
	if err := h.db.Find(&rollCalls).Error; err != nil {
		t.Fatalf("load roll calls: %v", err)
	}
	if len(rollCalls) != 1 || rollCalls[0].ID != "10-1" {
		t.Fatalf("roll calls = %+v", rollCalls)
	}

	var votes []model.Vote
	if err := h.db.Find(&votes).Error; err != nil {
		t.Fatalf("load votes: %v", err)
	}
	if len(votes) != 1 || votes[0].Value != "Sim" {
		t.Fatalf("votes = %+v, want enrichment applied", votes)
	}
}

func TestServiceResolveDeadLetter(t *testing.T) {
	svc, h := newTestService(t, &fakeExtractor{})
	ctx := context.Background()

	err := h.repo.AppendDeadLetters(ctx, []ports.DeadLetterCreate{
		{OriginSource: "camara_deputados", Payload: "{}", ErrorMessage: "boom", ErrorType: camara.CategorySchema},
	})
	if err != nil {
		t.Fatalf("AppendDeadLetters() error = %v", err)
	}

	items, err := svc.ListDeadLetters(ctx, false, 0)
	if err != nil {
		t.Fatalf("ListDeadLetters() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	if err := svc.ResolveDeadLetter(ctx, items[0].ID); err != nil {
		t.Fatalf("ResolveDeadLetter() error = %v", err)
	}

	open, err := svc.ListDeadLetters(ctx, false, 0)
	if err != nil {
		t.Fatalf("ListDeadLetters() after resolve error = %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("open = %d, want 0", len(open))
	}

	if err := svc.ResolveDeadLetter(ctx, "missing"); !errors.Is(err, ports.ErrDeadLetterNotFound) {
		t.Fatalf("ResolveDeadLetter(missing) error = %v, want ErrDeadLetterNotFound", err)
	}
}
