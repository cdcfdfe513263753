package api

import (
	"errors"
	"net/http"

	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/scraper"
)

// errorPayload is the structured error body every failure maps to. Kind is
// machine-readable; Message is for humans. Unstructured errors never reach
// the caller.
type errorPayload struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func errorResponse(kind, message string) errorPayload {
	return errorPayload{Error: errorDetail{Kind: kind, Message: message}}
}

// writeError maps a pipeline failure onto an HTTP status and the structured
// error payload.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, accounts.ErrNoUsableAccount) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse("no_usable_account", err.Error()))
		return
	}

	var fe *scraper.FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case scraper.KindNotFound:
			writeJSON(w, http.StatusNotFound, errorResponse("not_found", fe.Message))
		case scraper.KindAuth, scraper.KindTransient, scraper.KindUpstream:
			writeJSON(w, http.StatusBadGateway, errorResponse(string(fe.Kind), fe.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse(string(fe.Kind), fe.Error()))
		}
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse("internal", err.Error()))
}
