package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// decodeRequest decodes and validates the body into v. On failure it writes
// the response and returns false: 400 for a body that is not JSON, 422 for
// JSON with wrong types or values that fail validation.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	err := middleware.DecodeAndValidate(r, v)
	if err == nil {
		return true
	}

	logger.Debug("Request validation failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return false
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	field := "body"
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field = typeErr.Field
	}
	middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
		{Field: field, Message: err.Error()},
	})
	return false
}

// parseID reads a UUID path parameter, answering 422 when it is malformed
func parseID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: name, Message: "Must be a valid UUID"},
		})
		return uuid.Nil, false
	}
	return id, true
}

// parsePage reads skip and limit; both must be non-negative integers
func parsePage(w http.ResponseWriter, r *http.Request, pagination service.Pagination) (repository.Page, bool) {
	var validationErrors []middleware.ValidationError

	skip := 0
	if raw := r.URL.Query().Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			validationErrors = append(validationErrors, middleware.ValidationError{
				Field: "skip", Message: "Value must be an integer greater than or equal to 0",
			})
		}
		skip = n
	}

	var limit *int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			validationErrors = append(validationErrors, middleware.ValidationError{
				Field: "limit", Message: "Value must be an integer greater than or equal to 0",
			})
		}
		limit = &n
	}

	if len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return repository.Page{}, false
	}

	return pagination.Page(skip, limit), true
}

// nullable reports explicit nulls sent for fields that cannot be cleared
type nullable struct {
	errs []middleware.ValidationError
}

func (n *nullable) check(field string, null bool) {
	if null {
		n.errs = append(n.errs, middleware.ValidationError{Field: field, Message: "This field may not be null"})
	}
}

func (n *nullable) respond(w http.ResponseWriter) bool {
	if len(n.errs) == 0 {
		return false
	}
	middleware.RespondWithValidationErrors(w, n.errs)
	return true
}

// respondWithServiceError maps service and repository errors onto the API
// error taxonomy
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		productErr *service.ProductNotFoundError
		stockErr   *service.InsufficientStockError
		statusErr  *service.InvalidStatusError
	)

	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())

	case errors.As(err, &productErr):
		middleware.RespondWithErrorDetails(w, http.StatusNotFound, err.Error(), map[string]any{
			"product_id": productErr.ProductID,
		})

	case errors.As(err, &stockErr):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, err.Error(), map[string]any{
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		})

	case errors.As(err, &statusErr):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, err.Error(), map[string]any{
			"allowed": statusErr.Allowed,
		})

	case errors.Is(err, repository.ErrCustomerEmailExists),
		errors.Is(err, service.ErrUnknownCustomer):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, repository.ErrProductInUse),
		errors.Is(err, repository.ErrCustomerHasOrders),
		errors.Is(err, service.ErrOrderAlreadyCancelled),
		errors.Is(err, service.ErrOrderCancelled),
		errors.Is(err, repository.ErrValueOutOfRange):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrOrderTotalTooLarge):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "items", Message: err.Error()},
		})

	default:
		logger.Error("Unexpected error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logger.Debug("Request rejected", zap.Error(err))
}
