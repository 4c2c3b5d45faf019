package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"utilityapi/internal/auth"
	"utilityapi/internal/config"
	"utilityapi/internal/handler"
	"utilityapi/internal/logger"
	"utilityapi/internal/ratelimit"
	"utilityapi/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *logger.Logger,
	limiter *ratelimit.Limiter,
	tokens *auth.TokenService,
	users repository.UserRepository,
	authHandler *handler.AuthHandler,
	statusHandler *handler.StatusHandler,
	fileHandler *handler.FileHandler,
	imageHandler *handler.ImageHandler,
) {
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "Welcome to the Utility API. Navigate to /swagger/index.html for interactive documentation.",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public auth routes; only registration sits behind the rate gate.
	authGroup := e.Group("/auth")
	authGroup.POST("/basic/register", authHandler.Register, limiter.Middleware())
	authGroup.POST("/basic/token", authHandler.Token)
	authGroup.GET("/google/login", authHandler.GoogleLogin)
	authGroup.GET("/google/callback", authHandler.GoogleCallback)

	e.GET("/status/health", statusHandler.Health)

	// Tool routes require a valid bearer token resolving to an active user.
	tools := e.Group("/tools", auth.JWTMiddleware(tokens), auth.RequireUser(users, log))
	tools.POST("/files/to-base64", fileHandler.ToBase64)
	tools.POST("/files/from-base64", fileHandler.FromBase64)
	tools.POST("/images/resize", imageHandler.Resize)
	tools.POST("/images/upscale", imageHandler.Upscale)
}

// requestLogger feeds Echo's request data into the zerolog logger.
func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
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
