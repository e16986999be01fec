package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/passgen/passgen-go/internal/generator"
)

const maxBodyBytes = 1 << 20 // 1MB

var errInvalidBody = errors.New("invalid request body")

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set. It writes the error response itself and reports
// whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	if r.Body == nil {
		if allowEmpty {
			return true
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(errInvalidBody.Error()))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	var tooLarge *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
	case errors.As(err, &typeErr) && typeErr.Field == "length":
		writeJSON(w, http.StatusBadRequest, errorResponse(generator.ErrInvalidLength.Error()))
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse(errInvalidBody.Error()))
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response failed", "error", err)
	}
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
}
