package httpx

import (
	"errors"
	"net/http"

	"github.com/artha-erp/artha-erp/internal/shared"
)

// RespondError maps the billing error taxonomy to HTTP problem responses.
// Validation and conflict errors are terminal for the request; external
// service errors surface the provider code so the caller can decide about
// retrying.
func RespondError(w http.ResponseWriter, err error) {
	var (
		fieldErrs shared.FieldErrors
		valErr    *shared.ValidationError
		conflict  *shared.ConflictError
		notFound  *shared.NotFoundError
		external  *shared.ExternalServiceError
	)
	switch {
	case errors.As(err, &fieldErrs):
		fields := make([]ProblemField, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, ProblemField{Field: fe.Field, Message: fe.Message})
		}
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
			Errors: fields,
		})
	case errors.As(err, &valErr):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: valErr.Error(),
			Errors: []ProblemField{{Field: valErr.Field, Message: valErr.Message}},
		})
	case errors.As(err, &conflict):
		JSON(w, http.StatusConflict, ProblemDetail{
			Title:  "Conflict",
			Status: http.StatusConflict,
			Detail: conflict.Error(),
		})
	case errors.As(err, &notFound):
		Problem(w, http.StatusNotFound, "Not Found", notFound.Error())
	case errors.As(err, &external):
		JSON(w, http.StatusBadGateway, ProblemDetail{
			Title:     "External Service Error",
			Status:    http.StatusBadGateway,
			Detail:    external.Message,
			ErrorCode: external.Code,
		})
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
