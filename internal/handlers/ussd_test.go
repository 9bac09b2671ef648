package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
	"github.com/Copay-Africa/copay-server-sub001/internal/services"
	"github.com/Copay-Africa/copay-server-sub001/internal/storage"
	"github.com/Copay-Africa/copay-server-sub001/internal/ussd"
)

func newTestApp(t *testing.T, sessions ussd.SessionStore) *fiber.App {
	t.Helper()

	store := storage.NewMemoryStore()
	hash, err := services.HashPIN("1234")
	require.NoError(t, err)
	_, err = store.CreateMember(&models.Member{
		Name:      "Chantal",
		Phone:     "+250788000003",
		HashedPIN: hash,
		Status:    models.MemberStatusActive,
	})
	require.NoError(t, err)

	directories := services.NewDirectoryService(store)
	payments := services.NewPaymentService(store)
	engine := ussd.NewEngine(ussd.Dependencies{
		Sessions:     sessions,
		Members:      directories,
		PINs:         services.NewPINService(),
		Cooperatives: directories,
		PaymentTypes: services.NewPaymentTypeDirectoryService(store),
		Payments:     payments,
		History:      payments,
	})

	handler := NewUSSDHandler(engine)
	app := fiber.New()
	app.Post("/ussd", handler.HandleUSSD)
	app.Post("/ussd/health", handler.HandleHealth)
	return app
}

func postUSSD(t *testing.T, app *fiber.App, body any) (*http.Response, USSDResponse) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ussd", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out USSDResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestHandleUSSDWelcomeRequest(t *testing.T) {
	app := newTestApp(t, ussd.NewMemorySessionStore())

	resp, out := postUSSD(t, app, USSDRequest{
		SessionID:   "s1",
		PhoneNumber: "+250788000003",
		Text:        "",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CON", out.SessionState)
	assert.Contains(t, out.Message, "Welcome to Copay")
}

func TestHandleUSSDNormalizesPhone(t *testing.T) {
	app := newTestApp(t, ussd.NewMemorySessionStore())

	// Aggregators sometimes drop the leading +
	_, out := postUSSD(t, app, USSDRequest{
		SessionID:   "s1",
		PhoneNumber: "250788000003",
		Text:        "",
	})

	assert.Equal(t, "CON", out.SessionState)
	assert.Contains(t, out.Message, "Welcome to Copay")
}

func TestHandleUSSDMissingFieldsGetGenericEnd(t *testing.T) {
	app := newTestApp(t, ussd.NewMemorySessionStore())

	resp, out := postUSSD(t, app, USSDRequest{PhoneNumber: "+250788000003"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "END", out.SessionState)
	assert.Contains(t, out.Message, "temporarily unavailable")

	resp, out = postUSSD(t, app, USSDRequest{SessionID: "s1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "END", out.SessionState)
}

func TestHandleUSSDRejectsMalformedBody(t *testing.T) {
	app := newTestApp(t, ussd.NewMemorySessionStore())

	req := httptest.NewRequest(http.MethodPost, "/ussd", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// failingSessionStore simulates a session store outage
type failingSessionStore struct {
	deleted []string
}

func (f *failingSessionStore) Load(ctx context.Context, sessionID string) (*ussd.Session, error) {
	return nil, errors.New("store down")
}

func (f *failingSessionStore) Save(ctx context.Context, session *ussd.Session, ttl time.Duration) error {
	return errors.New("store down")
}

func (f *failingSessionStore) Delete(ctx context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func TestHandleUSSDStoreFailureIsGenericEnd(t *testing.T) {
	store := &failingSessionStore{}
	app := newTestApp(t, store)

	resp, out := postUSSD(t, app, USSDRequest{
		SessionID:   "s1",
		PhoneNumber: "+250788000003",
		Text:        "",
	})

	// Internal detail never reaches the USSD channel, and the session is
	// force-deleted so nothing is left stuck mid-flow
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "END", out.SessionState)
	assert.Contains(t, out.Message, "temporarily unavailable")
	assert.NotContains(t, out.Message, "store down")
	assert.Contains(t, store.deleted, "s1")
}

func TestHandleHealth(t *testing.T) {
	app := newTestApp(t, ussd.NewMemorySessionStore())

	req := httptest.NewRequest(http.MethodPost, "/ussd/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "copay-ussd-gateway", out["service"])
	assert.NotEmpty(t, out["timestamp"])
}
