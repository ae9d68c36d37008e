package camara

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"lupa/internal/domain/camara"
	"lupa/internal/errs"
	"lupa/internal/ports"
)

const dateLayout = "2006-01-02"

// envelope is the uniform upstream response wrapper.
type envelope struct {
	Dados []camara.Raw `json:"dados"`
}

// Extractor translates domain fetch requests into rate-limited API calls and
// unwraps the response envelope to its payload list.
type Extractor struct {
	client   *Client
	pageSize int
}

var _ ports.Extractor = (*Extractor)(nil)

func NewExtractor(client *Client, pageSize int) *Extractor {
	return &Extractor{client: client, pageSize: pageSize}
}

func (e *Extractor) Legislators(ctx context.Context) ([]camara.Raw, error) {
	return e.get(ctx, "/deputados", nil)
}

func (e *Extractor) Expenses(ctx context.Context, legislatorID int64, year int, page int) ([]camara.Raw, error) {
	query := url.Values{}
	query.Set("ano", strconv.Itoa(year))
	query.Set("pagina", strconv.Itoa(page))
	query.Set("itens", strconv.Itoa(e.pageSize))
	query.Set("ordem", "ASC")
	query.Set("ordenarPor", "dataDocumento")

	return e.get(ctx, fmt.Sprintf("/deputados/%d/despesas", legislatorID), query)
}

func (e *Extractor) Bills(ctx context.Context, from time.Time, to time.Time, page int) ([]camara.Raw, error) {
	query := url.Values{}
	query.Set("dataApresentacaoInicio", from.Format(dateLayout))
	query.Set("dataApresentacaoFim", to.Format(dateLayout))
	query.Set("pagina", strconv.Itoa(page))
	query.Set("itens", strconv.Itoa(e.pageSize))
	query.Set("ordem", "ASC")
	query.Set("ordenarPor", "id")

	return e.get(ctx, "/proposicoes", query)
}

// BillAuthors is an enrichment accessor: an unknown bill yields an empty
// list, absence of enrichment data is not a pipeline failure.
func (e *Extractor) BillAuthors(ctx context.Context, billID int64) ([]camara.Raw, error) {
	items, err := e.get(ctx, fmt.Sprintf("/proposicoes/%d/autores", billID), nil)
	if IsNotFound(err) {
		return nil, nil
	}
	return items, err
}

func (e *Extractor) RollCalls(ctx context.Context, from time.Time, to time.Time, page int) ([]camara.Raw, error) {
	query := url.Values{}
	query.Set("dataInicio", from.Format(dateLayout))
	query.Set("dataFim", to.Format(dateLayout))
	query.Set("pagina", strconv.Itoa(page))
	query.Set("itens", strconv.Itoa(e.pageSize))
	query.Set("ordem", "ASC")
	query.Set("ordenarPor", "dataHoraRegistro")

	return e.get(ctx, "/votacoes", query)
}

// RollCallVotes is an enrichment accessor, see BillAuthors.
func (e *Extractor) RollCallVotes(ctx context.Context, rollCallID string) ([]camara.Raw, error) {
	items, err := e.get(ctx, fmt.Sprintf("/votacoes/%s/votos", url.PathEscape(rollCallID)), nil)
	if IsNotFound(err) {
		return nil, nil
	}
	return items, err
}

func (e *Extractor) get(ctx context.Context, path string, query url.Values) ([]camara.Raw, error) {
	body, err := e.client.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errs.Wrapf(err, "decode envelope %s", path)
	}
	return env.Dados, nil
}
