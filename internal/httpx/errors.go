package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pagecart/bookstore-api/internal/apperr"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// writeError is the single translation point from domain failure kinds to
// HTTP statuses. Handlers pass errors through untouched.
func writeError(w http.ResponseWriter, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	code := http.StatusInternalServerError
	switch e.Kind {
	case apperr.KindNotFound:
		code = http.StatusNotFound
	case apperr.KindValidation, apperr.KindOrderProcessing:
		code = http.StatusBadRequest
	case apperr.KindAuthorization:
		code = http.StatusUnauthorized
	case apperr.KindConflict:
		code = http.StatusConflict
	}
	writeJSON(w, code, errorBody{Error: e.Msg, Fields: e.Fields})
}
