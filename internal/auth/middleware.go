package auth

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"utilityapi/internal/logger"
	"utilityapi/internal/model"
	"utilityapi/internal/repository"
)

// UserContextKey is where RequireUser stores the authenticated *model.User
// on the echo context.
const UserContextKey = "currentUser"

// unauthorizedMessage is the single client-facing rejection of the gate.
// Every failure mode returns it unchanged so the gate cannot be used to
// enumerate users or probe token state; the real reason goes to the log.
const unauthorizedMessage = "Invalid authentication credentials"

// JWTMiddleware validates the Authorization: Bearer header: signature,
// expiry and algorithm. The parsed token ends up under "user" on the
// context for RequireUser to resolve.
func JWTMiddleware(tokens *TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    tokens.SigningKey(),
		SigningMethod: tokens.Alg(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &jwt.RegisteredClaims{}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
		},
	})
}

// RequireUser resolves the validated token to a concrete, active user
// record and stores it on the context. Runs after JWTMiddleware.
func RequireUser(users repository.UserRepository, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}

			claims, ok := token.Claims.(*jwt.RegisteredClaims)
			if !ok || claims.Subject == "" {
				log.Warn().Msg("bearer token without subject claim")
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}

			user, err := users.FindByEmail(c.Request().Context(), claims.Subject)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn().Str("subject", claims.Subject).Msg("token subject not found")
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}
			if err != nil {
				// A store outage is not a rejection of the caller.
				log.Error().Err(err).Msg("credential store lookup failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable")
			}
			if !user.IsActive {
				log.Warn().Str("subject", claims.Subject).Msg("inactive user rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by RequireUser, or false when the
// route runs outside the authorization gate.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(UserContextKey).(*model.User)
	return user, ok
}
