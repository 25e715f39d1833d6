package handler

import (
	stderrors "errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leadflow/internal/errors"
	"leadflow/internal/service"
)

// IdentityContextKey is where the bearer middleware stores the resolved
// *service.Identity.
const IdentityContextKey = "identity"

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

func identityFrom(c echo.Context) (*service.Identity, error) {
	identity, ok := c.Get(IdentityContextKey).(*service.Identity)
	if !ok || identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: errors.ErrUnauthenticated.Error(),
			Code:  "UNAUTHENTICATED",
		})
	}
	return identity, nil
}

// respondError converts a service error into an echo HTTP error. Internal
// failures are logged with the request id and answered with a generic body.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	if errors.Internal(err) {
		logger.Error("request failed",
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func bindAndValidate(c echo.Context, logger *zap.Logger, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, logger, err)
	}
	return nil
}

func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error:  "invalid id",
			Code:   "VALIDATION_ERROR",
			Fields: map[string]string{name: "must be a uuid"},
		})
	}
	return id, nil
}

// Validator adapts go-playground/validator to echo and reports failures as
// *errors.ValidationError keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that names fields by their json tag.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}
	verr := &errors.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields[fe.Field()] = describe(fe)
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "uuid":
		return "must be a uuid"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
