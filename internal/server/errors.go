package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/piwi3910/BoxCut/internal/model"
)

// Error codes that are not part of the design taxonomy.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeInternal         = "INTERNAL_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeTooLarge         = "REQUEST_TOO_LARGE"
)

// ErrorBody is the "error" member of every failed response.
type ErrorBody struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Field   string  `json:"field,omitempty"`
	Value   float64 `json:"value,omitempty"`
	Limit   float64 `json:"limit,omitempty"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message, field string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Field: field}})
}

// designErrorBody converts a taxonomy error into a response body.
func designErrorBody(err error) ErrorBody {
	body := ErrorBody{Code: model.ErrorCode(err), Message: err.Error()}
	var fe *model.FieldError
	if errors.As(err, &fe) {
		body.Field = fe.Field
		body.Value = fe.Value
		body.Limit = fe.Limit
	}
	return body
}

// writeRequestError maps a decode or validation error to a status: 422 for rejected parameters,
// 413 for oversized bodies, 400 for anything the decoder choked on.
func writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	if model.IsDesignError(err) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ErrorResponse{Error: designErrorBody(err)})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, CodeTooLarge, err.Error(), "")
		return
	}
	writeError(w, r, http.StatusBadRequest, CodeBadRequest, "malformed request body: "+err.Error(), "")
}
