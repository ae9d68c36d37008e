package camara

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Validation is tolerant of unknown fields and coerces declared fields where
// that is safe (numeric strings become numbers, JSON numbers become integer
// IDs). A missing or uncoercible declared field rejects the record with
// CategorySchema; a panic while walking a malformed nested structure rejects
// it with CategoryUnhandled. Validators never return an error to the caller.

func ValidateLegislator(raw Raw) (rec LegislatorRecord, rej *Reject) {
	defer recoverReject(raw, &rej)

	id, ok := intField(raw, "id")
	if !ok {
		return LegislatorRecord{}, schemaReject(raw, "field id: missing or not an integer")
	}
	name, ok := stringField(raw, "nome")
	if !ok {
		return LegislatorRecord{}, schemaReject(raw, "field nome: missing or empty")
	}
	region, ok := stringField(raw, "siglaUf")
	if !ok {
		return LegislatorRecord{}, schemaReject(raw, "field siglaUf: missing or empty")
	}

	rec = LegislatorRecord{
		ID:            id,
		Name:          name,
		LegalName:     name,
		Region:        region,
		LegislatureID: optInt(raw, "idLegislatura"),
		Email:         optString(raw, "email"),
		PhotoURL:      optString(raw, "urlFoto"),
	}
	if legal, ok := stringField(raw, "nomeCivil"); ok {
		rec.LegalName = legal
	}

	if acronym, ok := stringField(raw, "siglaPartido"); ok {
		if uri, ok := stringField(raw, "uriPartido"); ok {
			if partyID, ok := PartyIDFromURI(uri); ok {
				partyName := acronym
				if n, ok := stringField(raw, "nomePartido"); ok {
					partyName = n
				}
				rec.Party = &PartyRecord{ID: partyID, Acronym: acronym, Name: partyName}
			}
		}
	}

	return rec, nil
}

func ValidateExpense(raw Raw) (rec ExpenseRecord, rej *Reject) {
	defer recoverReject(raw, &rej)

	extID, ok := intField(raw, "idDocumento")
	if !ok {
		return ExpenseRecord{}, schemaReject(raw, "field idDocumento: missing or not an integer")
	}
	amount, err := decimalField(raw, "valorLiquido")
	if err != nil {
		return ExpenseRecord{}, schemaReject(raw, "field valorLiquido: %v", err)
	}

	rec = ExpenseRecord{
		ExtID:       extID,
		Amount:      amount,
		IssuedOn:    optString(raw, "dataDocumento"),
		CompanyName: optString(raw, "nomeFornecedor"),
		ExpenseType: optString(raw, "tipoDespesa"),
		DocumentURL: optString(raw, "urlDocumento"),
	}
	if taxID, ok := stringField(raw, "cnpjCpfFornecedor"); ok {
		rec.CompanyTaxID = &taxID
	}

	return rec, nil
}

func ValidateBill(raw Raw) (rec BillRecord, rej *Reject) {
	defer recoverReject(raw, &rej)

	id, ok := intField(raw, "id")
	if !ok {
		return BillRecord{}, schemaReject(raw, "field id: missing or not an integer")
	}
	typeAcronym, ok := stringField(raw, "siglaTipo")
	if !ok {
		return BillRecord{}, schemaReject(raw, "field siglaTipo: missing or empty")
	}
	number, ok := intField(raw, "numero")
	if !ok {
		return BillRecord{}, schemaReject(raw, "field numero: missing or not an integer")
	}
	year, ok := intField(raw, "ano")
	if !ok {
		return BillRecord{}, schemaReject(raw, "field ano: missing or not an integer")
	}

	rec = BillRecord{
		ID:          id,
		TypeAcronym: typeAcronym,
		Number:      number,
		Year:        year,
		PresentedAt: optString(raw, "dataApresentacao"),
	}
	if typeCode, ok := intField(raw, "codTipo"); ok {
		rec.TypeCode = typeCode
	}
	if summary, ok := stringField(raw, "ementa"); ok {
		rec.Summary = summary
	}
	rec.AuthorIDs = authorIDs(raw["autores"])

	return rec, nil
}

func ValidateRollCall(raw Raw) (rec RollCallRecord, rej *Reject) {
	defer recoverReject(raw, &rej)

	id, ok := stringField(raw, "id")
	if !ok {
		return RollCallRecord{}, schemaReject(raw, "field id: missing or empty")
	}
	timestamp, ok := stringField(raw, "dataHoraRegistro")
	if !ok {
		timestamp, ok = stringField(raw, "data")
	}
	if !ok {
		return RollCallRecord{}, schemaReject(raw, "field dataHoraRegistro: missing or empty")
	}
	body, ok := stringField(raw, "siglaOrgao")
	if !ok {
		return RollCallRecord{}, schemaReject(raw, "field siglaOrgao: missing or empty")
	}

	rec = RollCallRecord{
		ID:        id,
		Timestamp: timestamp,
		Body:      body,
		Approved:  approvalOutcome(raw["aprovacao"]),
	}
	if desc, ok := stringField(raw, "descricao"); ok {
		rec.Description = desc
	}
	rec.BillID = rollCallBillRef(raw)
	rec.Votes = voteRecords(raw["votos"])

	return rec, nil
}

// rollCallBillRef resolves the bill a roll call voted on. The list payload
// carries the reference directly; detail payloads nest it under the last
// presentation entry. Absence is fine, not every roll call targets a bill.
func rollCallBillRef(raw Raw) *int64 {
	for _, key := range []string{"uriProposicaoObjeto", "proposicaoObjeto"} {
		if uri, ok := stringField(raw, key); ok {
			if billID, ok := BillIDFromURI(uri); ok {
				return &billID
			}
		}
	}
	if nested, ok := raw["ultimaApresentacaoProposicao"].(Raw); ok {
		if uri, ok := stringField(nested, "uriProposicaoCitada"); ok {
			if billID, ok := BillIDFromURI(uri); ok {
				return &billID
			}
		}
	}
	return nil
}

// rawSlice normalizes an enrichment list: decoded JSON yields []any while
// the orchestrator attaches []Raw directly.
func rawSlice(value any) []Raw {
	switch v := value.(type) {
	case []Raw:
		return v
	case []any:
		out := make([]Raw, 0, len(v))
		for _, entry := range v {
			if raw, ok := entry.(Raw); ok {
				out = append(out, raw)
			}
		}
		return out
	default:
		return nil
	}
}

// authorIDs walks the inline author enrichment list. Entries that do not
// reference a deputy (committees, the senate, the executive) are skipped;
// they are not ingestible records.
func authorIDs(value any) []int64 {
	entries := rawSlice(value)
	if len(entries) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(entries))
	for _, author := range entries {
		uri, ok := stringField(author, "uri")
		if !ok {
			continue
		}
		if id, ok := LegislatorIDFromURI(uri); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// voteRecords walks the inline vote enrichment list. Malformed entries are
// skipped silently: individual votes are association data, not records.
func voteRecords(value any) []VoteRecord {
	entries := rawSlice(value)
	if len(entries) == 0 {
		return nil
	}

	votes := make([]VoteRecord, 0, len(entries))
	for _, vote := range entries {
		voteValue, ok := stringField(vote, "tipoVoto")
		if !ok {
			continue
		}
		deputy, ok := vote["deputado_"].(Raw)
		if !ok {
			continue
		}
		legislatorID, ok := intField(deputy, "id")
		if !ok {
			continue
		}
		votes = append(votes, VoteRecord{LegislatorID: legislatorID, Value: voteValue})
	}
	return votes
}

// approvalOutcome maps the upstream 0/1/null marker to a tri-state.
func approvalOutcome(value any) *bool {
	n, ok := coerceInt(value)
	if !ok {
		return nil
	}
	approved := n != 0
	return &approved
}

func recoverReject(raw Raw, rej **Reject) {
	if r := recover(); r != nil {
		*rej = &Reject{
			Payload:  raw,
			Message:  fmt.Sprintf("panic during conversion: %v", r),
			Category: CategoryUnhandled,
		}
	}
}

func schemaReject(raw Raw, format string, args ...any) *Reject {
	return &Reject{
		Payload:  raw,
		Message:  fmt.Sprintf(format, args...),
		Category: CategorySchema,
	}
}

// RawInt reads one integer-coercible field from an untyped record; the
// orchestrator uses it to key enrichment lookups before validation runs.
func RawInt(raw Raw, key string) (int64, bool) {
	return intField(raw, key)
}

// RawString is the string counterpart of RawInt.
func RawString(raw Raw, key string) (string, bool) {
	return stringField(raw, key)
}

func intField(raw Raw, key string) (int64, bool) {
	value, ok := raw[key]
	if !ok {
		return 0, false
	}
	return coerceInt(value)
}

func coerceInt(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, false
		}
		return n, true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func stringField(raw Raw, key string) (string, bool) {
	value, ok := raw[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

func optString(raw Raw, key string) *string {
	if s, ok := stringField(raw, key); ok {
		return &s
	}
	return nil
}

func optInt(raw Raw, key string) *int64 {
	if n, ok := intField(raw, key); ok {
		return &n
	}
	return nil
}

// decimalField validates a monetary amount and canonicalizes it to two
// fractional digits. There is no decimal type in the standard library, so the
// canonical representation is a validated string.
func decimalField(raw Raw, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("missing")
	}

	var text string
	switch v := value.(type) {
	case string:
		text = strings.TrimSpace(v)
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "", fmt.Errorf("not a decimal: %T", value)
	}

	rat, ok := new(big.Rat).SetString(text)
	if !ok {
		return "", fmt.Errorf("not a decimal: %q", text)
	}
	return rat.FloatString(2), nil
}
