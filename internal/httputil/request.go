package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxRequestBodySize caps request bodies at 10MB, large enough for
// documents carrying data-URI images.
const maxRequestBodySize = 10 << 20

// ParseJSON decodes a JSON request body into dst, rejecting unknown
// fields and oversized bodies.
func ParseJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}
