package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
	"github.com/Simplici0/contractor-quote/internal/store"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed request that never reached the engine.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeIncomplete(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"status": "incomplete"})
}

// writeFailure maps domain errors to HTTP statuses. Anything unrecognised is
// logged and reported as a 500 without details.
func writeFailure(w http.ResponseWriter, err error) {
	var unknown *quote.ErrUnknownItem
	var bad *requestError
	switch {
	case errors.Is(err, pricing.ErrInvalidInput), errors.As(err, &unknown), errors.As(err, &bad):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		log.Printf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &requestError{msg: "request body is empty"}
		}
		return &requestError{msg: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}
