package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/stokra/internal/catalog/domain"
	inventorydomain "github.com/smallbiznis/stokra/internal/inventory/domain"
	locationdomain "github.com/smallbiznis/stokra/internal/location/domain"
	orderdomain "github.com/smallbiznis/stokra/internal/order/domain"
	pipelinedomain "github.com/smallbiznis/stokra/internal/pipeline/domain"
	"github.com/smallbiznis/stokra/pkg/tenantctx"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	// Insufficient stock gets its own shape so clients can surface the gap.
	var insufficient *inventorydomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "insufficient_stock",
			Message: insufficient.Error(),
			Details: map[string]any{
				"requested": insufficient.Requested,
				"available": insufficient.Available,
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, tenantctx.ErrMissingTenant):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, locationdomain.ErrNoLocation):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "no_location",
			Message: "tenant has no stock location",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isCatalogValidationError(err),
		isInventoryValidationError(err),
		isPipelineValidationError(err),
		errors.Is(err, orderdomain.ErrInvalidQuantity),
		errors.Is(err, locationdomain.ErrInvalidName):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	var (
		dupSKU      *catalogdomain.DuplicateSKUError
		dupCategory *catalogdomain.DuplicateCategoryNameError
		dupUnit     *catalogdomain.DuplicateUnitError
		dupLocation *locationdomain.DuplicateLocationNameError
	)
	switch {
	case errors.As(err, &dupSKU),
		errors.As(err, &dupCategory),
		errors.As(err, &dupUnit),
		errors.As(err, &dupLocation):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalogdomain.ErrItemNotFound),
		errors.Is(err, catalogdomain.ErrCategoryNotFound),
		errors.Is(err, inventorydomain.ErrLevelNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, pipelinedomain.ErrPipelineNotFound),
		errors.Is(err, pipelinedomain.ErrStageNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
