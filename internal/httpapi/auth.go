package httpapi

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const ownerKey = "owner_id"

// JWTAuth validates an HS256 bearer token and stores its subject as the
// owner of the request.
func JWTAuth(secret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			var claims jwt.RegisteredClaims
			tok, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid token"})
			}
			if claims.Subject == "" {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: "token has no subject"})
			}

			c.Set(ownerKey, claims.Subject)
			return next(c)
		}
	}
}

func ownerID(c echo.Context) string {
	id, _ := c.Get(ownerKey).(string)
	return id
}
