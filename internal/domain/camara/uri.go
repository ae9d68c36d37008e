package camara

import (
	"strconv"
	"strings"
)

// The API embeds entity references as URIs such as
// https://dadosabertos.camara.leg.br/api/v2/partidos/36844; the numeric ID is
// the last path segment.

func PartyIDFromURI(uri string) (int64, bool) {
	return idFromURI(uri, "/partidos/")
}

func LegislatorIDFromURI(uri string) (int64, bool) {
	return idFromURI(uri, "/deputados/")
}

func BillIDFromURI(uri string) (int64, bool) {
	return idFromURI(uri, "/proposicoes/")
}

func idFromURI(uri string, resourceSegment string) (int64, bool) {
	trimmed := strings.TrimRight(strings.TrimSpace(uri), "/")
	if trimmed == "" || !strings.Contains(trimmed, resourceSegment) {
		return 0, false
	}

	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return 0, false
	}

	id, err := strconv.ParseInt(trimmed[idx+1:], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
