package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

var errBadBody = errors.New("invalid request body")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", errBadBody, err)
	}
	return nil
}

// userMessage strips the package prefix from a sentinel error chain so
// callers see "product not found" rather than "catalog: product not
// found".
func userMessage(err error) string {
	msg := err.Error()
	if _, rest, found := strings.Cut(msg, ": "); found {
		return rest
	}
	return msg
}
