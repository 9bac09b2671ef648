package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(token string) *fiber.App {
	app := fiber.New()
	app.Post("/ussd", ValidateAggregatorToken(token), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestValidAggregatorTokenPasses(t *testing.T) {
	app := newAuthApp("secret")

	req := httptest.NewRequest(http.MethodPost, "/ussd", nil)
	req.Header.Set("X-Aggregator-Token", "secret")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBadOrMissingAggregatorTokenRejected(t *testing.T) {
	app := newAuthApp("secret")

	req := httptest.NewRequest(http.MethodPost, "/ussd", nil)
	req.Header.Set("X-Aggregator-Token", "wrong")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/ussd", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEmptyConfiguredTokenDisablesCheck(t *testing.T) {
	app := newAuthApp("")

	req := httptest.NewRequest(http.MethodPost, "/ussd", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
