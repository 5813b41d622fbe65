package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"lostfound/internal/auth"
	"lostfound/internal/config"
	"lostfound/internal/errors"
	"lostfound/internal/handler"
	"lostfound/internal/logging"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Item    *handler.ItemHandler
	Comment *handler.CommentHandler
	Message *handler.MessageHandler
	Story   *handler.StoryHandler
	Image   *handler.ImageHandler
	WS      *handler.WSHandler
}

// Security carries what the JWT middleware needs.
type Security struct {
	JWT    *auth.JWTService
	Tokens auth.TokenStoreInterface
}

// Register wires routes and middleware. uploadsDir, when non-empty, is
// served under /uploads for the local image store.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger logging.Logger,
	sec Security,
	h Handlers,
	uploadsDir string,
) {
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB+1)))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if uploadsDir != "" {
		e.Static("/uploads", uploadsDir)
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.GET("/items/lost", h.Item.ListLost)
	api.GET("/items/found", h.Item.ListFound)
	api.GET("/items/:kind/:id", h.Item.Get)
	api.GET("/items/:kind/:id/comments", h.Comment.ListForItem)
	api.GET("/comments", h.Comment.ListRecent)
	api.GET("/stories", h.Story.List)
	api.GET("/stories/:id", h.Story.Get)
	api.POST("/chatbot", handler.Chatbot)
	api.GET("/images/*", h.Image.Redirect)

	// Secured routes (require JWT authentication)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  sec.JWT.Secret(),
			TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,query:token",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid or missing token",
					Code:  "INVALID_TOKEN",
				})
			},
		}),
		identity(sec.Tokens),
	)

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/me", h.User.Me)
	secured.GET("/users/contacts", h.User.ListContacts)

	// Catalog
	secured.POST("/items/lost", h.Item.CreateLost)
	secured.POST("/items/found", h.Item.CreateFound)
	secured.POST("/items/:kind/:id/comments", h.Comment.Add)
	secured.POST("/items/:kind/:id/contact", h.Message.ContactOwner)

	// Messaging
	secured.POST("/messages", h.Message.Send)
	secured.GET("/messages/inbox", h.Message.Inbox)
	secured.GET("/messages/with/:userID", h.Message.Conversation)
	secured.GET("/ws", h.WS.Connect)

	// Stories
	secured.POST("/stories", h.Story.Post)
}

// identity rejects blacklisted access tokens and places the caller's id in
// the request context for the service layer.
func identity(tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid token",
					Code:  "INVALID_TOKEN",
				})
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.UserID == 0 || claims.ID == "" || claims.Type != auth.TokenTypeAccess {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid token claims",
					Code:  "INVALID_TOKEN",
				})
			}

			ctx := c.Request().Context()
			revoked, err := tokens.IsAccessTokenBlacklisted(ctx, claims.ID)
			if err == nil && revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "token has been revoked",
					Code:  "TOKEN_REVOKED",
				})
			}

			c.SetRequest(c.Request().WithContext(auth.WithUserID(ctx, claims.UserID)))
			return next(c)
		}
	}
}

func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			}
			if userID, ok := auth.UserIDFromContext(ctx); ok {
				args = append(args, "user_id", userID)
			}
			if v.Error != nil {
				logger.Warn(ctx, "request failed", append(args, "error", v.Error.Error())...)
				return nil
			}
			logger.Info(ctx, "request", args...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
