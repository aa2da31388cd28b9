package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poi-service/internal/pkg/errors"
)

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestSendSuccess(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return SendSuccess(c, fiber.Map{"ok": true}, &Meta{Total: 2})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, map[string]interface{}{"ok": true}, body["data"])
	assert.Equal(t, float64(2), body["meta"].(map[string]interface{})["total"])
}

func TestSendSuccess_ElapsedTime(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(RequestStartKey, time.Now().Add(-25*time.Millisecond))
		return SendSuccess(c, nil, &Meta{Total: 1})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	meta := decode(t, resp.Body)["meta"].(map[string]interface{})
	assert.GreaterOrEqual(t, meta["time_ms"].(float64), 25.0)
}

func TestSendError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"app error", errors.ErrNoDataLoaded, 400, errors.CodeNoDataLoaded},
		{"wrapped app error", fmt.Errorf("ctx: %w", errors.ErrPOINotFound), 404, errors.CodePOINotFound},
		{"plain error", stderrors.New("boom"), 500, errors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return SendError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, tt.wantCode, body["error"].(map[string]interface{})["code"])
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 51.66, Round(51.6649, 2))
	assert.Equal(t, 4320.37, Round(4320.3712, 2))
	assert.Equal(t, 0.0, Round(0.004, 2))
}
