package middleware

import (
	"fmt"
	"strings"

	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/Iphint/Sayurku/pkg/response"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

// IsLoggedIn validates the Bearer token and stores the parsed token under
// the "user" context key for utils.ExtractTokenUser.
func IsLoggedIn(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn)
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn)
			}

			c.Set("user", token)

			return next(c)
		}
	}
}
