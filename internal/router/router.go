package router

import (
	stderrors "errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"leadflow/internal/errors"
	"leadflow/internal/handler"
	"leadflow/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Leads         *handler.LeadHandler
	Notes         *handler.NoteHandler
	Users         *handler.UserHandler
	Notifications *handler.NotificationHandler
	Analytics     *handler.AnalyticsHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, identity service.IdentityService, h Handlers, logger *zap.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = handler.NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/signup", h.Auth.Signup)

	// Secured routes (require a valid token for an active user)
	secured := api.Group("", BearerAuth(identity, logger))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)

	// Lead routes
	secured.GET("/leads", h.Leads.ListLeads)
	secured.POST("/leads", h.Leads.CreateLead)
	secured.GET("/leads/:id", h.Leads.GetLead)
	secured.PUT("/leads/:id", h.Leads.UpdateLead)
	secured.PATCH("/leads/:id", h.Leads.UpdateLead)
	secured.DELETE("/leads/:id", h.Leads.DeleteLead)

	// Note routes
	secured.GET("/leads/:id/notes", h.Notes.ListNotes)
	secured.POST("/leads/:id/notes", h.Notes.CreateNote)

	// User routes
	secured.GET("/users", h.Users.ListUsers)
	secured.POST("/users", h.Users.CreateUser)
	secured.GET("/users/:id", h.Users.GetUser)
	secured.PUT("/users/:id", h.Users.UpdateUser)
	secured.PATCH("/users/:id", h.Users.UpdateUser)
	secured.DELETE("/users/:id", h.Users.DeleteUser)

	// Notification routes
	secured.GET("/notifications", h.Notifications.ListNotifications)
	secured.PATCH("/notifications", h.Notifications.MarkRead)

	secured.GET("/analytics", h.Analytics.Summary)
}

// BearerAuth verifies the Authorization bearer token and stores the resolved
// identity under handler.IdentityContextKey.
func BearerAuth(identity service.IdentityService, logger *zap.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.IdentityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return identity.Resolve(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var parseErr *echojwt.TokenParsingError
			if !stderrors.As(err, &parseErr) {
				// no usable Authorization header
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: errors.ErrUnauthenticated.Error(),
					Code:  "UNAUTHENTICATED",
				})
			}
			if errors.Internal(parseErr.Err) {
				logger.Error("identity resolution failed",
					zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
					zap.Error(parseErr.Err))
			}
			httpErr := errors.MapErrorToHTTP(parseErr.Err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}
