// Package handlers implements the REST API on top of the services.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"beyondnp-backend/internal/response"
)

// decode reads a JSON body into v. An empty body leaves v untouched. On a
// malformed body it writes a 400 and returns false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	response.Fail(w, http.StatusBadRequest, "Invalid request body")
	return false
}

func queryLimit(r *http.Request) int64 {
	n, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
