package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/midgarden/userd/pkg/slogx"
	"github.com/midgarden/userd/pkg/userapi"
)

// maxBodyBytes caps request bodies. The largest legitimate payload here is a
// registration request; 1 MiB is generous.
const maxBodyBytes = 1 << 20

// decodeJSON reads one JSON object into dst. A malformed or oversized body
// writes the validation error itself and reports false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	// Unknown fields are dropped, not rejected: a PATCH body carrying "role"
	// or "is_active" simply never reaches the service layer.
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			userapi.ErrValidation.WithMessage("request body is required").WriteError(w)
			return false
		}
		userapi.ErrValidation.WithMessage("malformed JSON body").WriteError(w)
		return false
	}
	return true
}

// writeServiceError maps a service failure onto the wire. Domain errors pass
// through with their status; anything else is logged and collapsed to a 500
// so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *userapi.Error
	if errors.As(err, &apiErr) {
		apiErr.WriteError(w)
		return
	}

	slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
	userapi.ErrServerError.WriteError(w)
}
