package http

import (
	"errors"
	"net/http"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

var errUnauthenticated = errors.New("authentication required")

// Claims are the bearer token claims issued by the identity provider.
// Subject carries the actor id.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Authenticator turns HS256 bearer tokens into actors.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret not configured")
	}
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Actor validates the token and resolves its subject and role.
func (a *Authenticator) Actor(token string) (access.Actor, error) {
	claims := &Claims{}
	parsed, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return access.Actor{}, err
	}
	if !parsed.Valid {
		return access.Actor{}, errors.New("invalid token")
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return access.Actor{}, err
	}
	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return access.Actor{}, err
	}
	return access.NewActor(id, role)
}

// Middleware rejects requests without a valid bearer token and stores the
// actor on the echo context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return errorResponse(c, http.StatusUnauthorized, errUnauthenticated.Error())
			}
			actor, err := a.Actor(token)
			if err != nil {
				return errorResponse(c, http.StatusUnauthorized, "invalid bearer token")
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func actorFrom(c echo.Context) (access.Actor, error) {
	actor, ok := c.Get(actorContextKey).(access.Actor)
	if !ok {
		return access.Actor{}, errUnauthenticated
	}
	return actor, nil
}
