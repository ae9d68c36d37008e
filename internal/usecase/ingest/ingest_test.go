package ingest

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"lupa/internal/infrastructure/persistence/sqlite/model"
	"lupa/internal/infrastructure/persistence/sqlite/repository"
	"lupa/internal/infrastructure/persistence/sqlite/uow"
	"lupa/internal/ports"
)

// harness wires the ingestor against a throwaway sqlite store so batch
// semantics are tested end to end, transactions included.
type harness struct {
	db       *gorm.DB
	repo     *repository.IngestRepository
	ingestor *Ingestor
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(
		&model.Party{},
		&model.Legislator{},
		&model.Company{},
		&model.Expense{},
		&model.Bill{},
		&model.BillAuthor{},
		&model.RollCall{},
		&model.Vote{},
		&model.DeadLetter{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := repository.NewIngestRepository(db)
	return &harness{
		db:       db,
		repo:     repo,
		ingestor: NewIngestor(repo, uow.NewUnitOfWork(db)),
	}
}

func (h *harness) seedLegislator(t *testing.T, id int64) {
	t.Helper()
	err := h.repo.UpsertLegislators(context.Background(), []ports.LegislatorUpsert{
		{ID: id, Name: "Fulano", LegalName: "Fulano Silva", Region: "SP"},
	})
	if err != nil {
		t.Fatalf("seed legislator %d: %v", id, err)
	}
}

func (h *harness) deadLetterCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := h.db.Model(&model.DeadLetter{}).Count(&count).Error; err != nil {
		t.Fatalf("count dead letters: %v", err)
	}
	return count
}
