package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/graph"
)

type apiError struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

var (
	errBadRequest = errors.New("bad request")
	errTooLarge   = errors.New("request body too large")
)

// mapError picks the HTTP status and error code for err.
func mapError(err error) (int, apiError) {
	var ge *graph.Error
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, common.ErrInvalidFileName),
		errors.Is(err, common.ErrInvalidEntityID),
		errors.Is(err, common.ErrInvalidKind),
		errors.Is(err, common.ErrInvalidItemID):
		return http.StatusBadRequest, apiError{"bad_request", err.Error()}
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge, apiError{"payload_too_large", err.Error()}
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, apiError{"token_expired", "token expired"}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, apiError{"unauthorized", "unauthorized"}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, apiError{"not_found", "not found"}
	case errors.Is(err, common.ErrLedgerDisabled):
		return http.StatusNotImplemented, apiError{"not_implemented", "attachment ledger disabled"}
	case errors.Is(err, common.ErrSiteNotFound):
		return http.StatusServiceUnavailable, apiError{"site_not_found", "document library not found"}
	case errors.As(err, &ge) && (ge.StatusCode == http.StatusForbidden || ge.StatusCode == http.StatusTooManyRequests):
		return ge.StatusCode, apiError{"upstream", http.StatusText(ge.StatusCode)}
	case errors.Is(err, common.ErrFolderCreation),
		errors.Is(err, common.ErrUpload),
		errors.As(err, &ge):
		return http.StatusBadGateway, apiError{"upstream", "document store error"}
	default:
		return http.StatusInternalServerError, apiError{"unexpected", "unexpected"}
	}
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	status, e := mapError(err)
	writeJSON(w, status, envelope{Error: &e})
}
