package api

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/validation"
)

const maxBodyBytes = 5 << 20

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.Normalize(err)
	writeJSON(w, apperrors.HTTPStatus(stdErr.Code), ErrorBody{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}

// decodeBody checks the request body against schema and then decodes it
// into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *validation.Schema, dst interface{}) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewTemplateInvalidPayloadError("request body too large or unreadable")
	}
	if result := schema.ValidateJSON(data); !result.Valid {
		return result.Err()
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.NewTemplateInvalidPayloadError(err.Error())
	}
	return nil
}
