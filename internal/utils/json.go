package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"smart_horses/internal/errors"
)

const maxRequestBody = 1 << 20

// DecodeJSONRequest strictly decodes a request body into dst: unknown fields
// are rejected so client typos fail loudly instead of being dropped.
func DecodeJSONRequest(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return fmt.Errorf("%w: failed to read body: %v", errors.ErrBadRequest, err)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", errors.ErrBadRequest, err)
	}
	return nil
}
