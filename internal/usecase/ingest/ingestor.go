// Package ingest drives ingestion runs for the Câmara open-data pipeline:
// the fetch orchestrator (Service) and the batch ingestor (Ingestor).
package ingest

import (
	"encoding/json"
	"fmt"

	"lupa/internal/domain/camara"
	"lupa/internal/ports"
)

// Ingestor turns one raw batch into a fully applied, idempotent database
// mutation plus dead-letter records for anything that could not be applied.
// Each batch commits in one transaction: any repository failure rolls back
// domain writes and dead letters together.
type Ingestor struct {
	repo ports.IngestRepository
	uow  ports.UnitOfWork
}

func NewIngestor(repo ports.IngestRepository, uow ports.UnitOfWork) *Ingestor {
	return &Ingestor{repo: repo, uow: uow}
}

func deadLetters(origin string, rejects []camara.Reject) []ports.DeadLetterCreate {
	if len(rejects) == 0 {
		return nil
	}

	entries := make([]ports.DeadLetterCreate, 0, len(rejects))
	for _, rej := range rejects {
		payload, err := json.Marshal(rej.Payload)
		if err != nil {
			payload = []byte(fmt.Sprintf("%v", rej.Payload))
		}
		entries = append(entries, ports.DeadLetterCreate{
			OriginSource: origin,
			Payload:      string(payload),
			ErrorMessage: rej.Message,
			ErrorType:    rej.Category,
		})
	}
	return entries
}

// dedupeLast keeps one element per key, the last occurrence winning, while
// preserving first-seen order. Upstream pages can repeat an external ID;
// a multi-row upsert must not hit the same key twice in one statement.
func dedupeLast[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) < 2 {
		return items
	}

	out := make([]T, 0, len(items))
	index := make(map[K]int, len(items))
	for _, item := range items {
		k := key(item)
		if at, ok := index[k]; ok {
			out[at] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}
