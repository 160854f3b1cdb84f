package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/thiamyoussouph/sasstock-sub000/internal/apierror"
	"github.com/thiamyoussouph/sasstock-sub000/internal/middleware"
	"github.com/thiamyoussouph/sasstock-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// tenantCompanyID resolves the company of the authenticated user. Writes a
// 403 and returns false for superadmin tokens, which carry no tenant.
func tenantCompanyID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusForbidden, apierror.New("Cette ressource nécessite un compte entreprise"))
	}
	return id, ok
}

// parseIDParam reads and parses the :id path segment.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps typed business errors to HTTP statuses. Conflicts
// with the current state (stock, balance, cancellation) are 409, a missing
// price tier is 422, not-found sentinels are 404, the rest 400.
func respondServiceError(c *gin.Context, err error) {
	var insufficientStock *service.ErrInsufficientStock
	var missingPrice *service.ErrMissingPriceForMode
	var fullyPaid *service.ErrAlreadyFullyPaid

	switch {
	case errors.As(err, &insufficientStock):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &missingPrice):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidPaymentAmount):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.As(err, &fullyPaid):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSaleCancelled):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrMovementNotFound),
		errors.Is(err, service.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
