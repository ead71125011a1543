// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	kind := shared.Kind(err)
	switch {
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, kind, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrReference):
		Problem(w, http.StatusUnprocessableEntity, kind, "Invalid Product", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, kind, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, kind, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, kind, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrDocumentRender):
		Problem(w, http.StatusBadGateway, kind, "Document Render Failed", "the document could not be produced, try again")
	default:
		Problem(w, http.StatusInternalServerError, kind, "Internal Error", "")
	}
}
