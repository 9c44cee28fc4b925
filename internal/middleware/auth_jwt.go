package middleware

import (
	"errors"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

var errMissingUID = errors.New("missing uid")

// Claims is the access token payload. uid wins over sub; role is empty for
// ordinary neighbors.
type Claims struct {
	UID  string `json:"uid,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) userID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject
}

func parseBearer(tokenStr, secret string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.userID() == "" {
		return nil, errMissingUID
	}
	return &claims, nil
}

// JWTAuth verifies an HS256 bearer token and stores the caller in
// Locals("user_id") and Locals("role"). A request without a bearer header
// continues anonymous and is refused later by InjectViewer.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return c.Next()
		}

		claims, err := parseBearer(strings.TrimSpace(auth[7:]), secret)
		if errors.Is(err, errMissingUID) {
			return fiber.NewError(fiber.StatusUnauthorized, "missing uid")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", claims.userID())
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// RequireRole lets through only callers whose token carries one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role == "" || !slices.Contains(roles, role) {
			return fiber.NewError(fiber.StatusForbidden, "moderator access required")
		}
		return c.Next()
	}
}
