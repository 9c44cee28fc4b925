package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap/zaptest"

	"github.com/ualiu/neighbours-only/internal/middleware"
)

const testSecret = "routes-secret"

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UID:              bson.NewObjectID().Hex(),
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestLearningLogIsStaffOnly(t *testing.T) {
	app := fiber.New()
	api := app.Group("/", middleware.JWTAuth(testSecret))
	SetupRoutesModeration(api, Deps{Log: zaptest.NewLogger(t)})

	for _, role := range []string{"", "neighbor"} {
		req := httptest.NewRequest(http.MethodGet, "/moderation/learning", nil)
		req.Header.Set("Authorization", bearer(t, role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "role %q", role)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/moderation/learning", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
