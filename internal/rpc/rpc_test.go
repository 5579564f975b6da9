package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/identity"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/services"
	"github.com/cfkpezinok/club-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct {
	Month    int             `json:"month" validate:"required,gte=1,lte=12"`
	Category models.Category `json:"category" validate:"required,category"`
	Date     *string         `json:"date" validate:"omitempty,datestr"`
}

func newTestApp(t *testing.T, guards Guards) (*fiber.App, *int) {
	t.Helper()
	calls := 0
	r := NewRouter(guards)
	Query(r, "echo.get", Public, func(c *Call, in echoInput) (echoInput, error) {
		calls++
		return in, nil
	})
	Mutation(r, "echo.set", Protected, func(c *Call, in echoInput) (dto.SuccessResponse, error) {
		calls++
		return dto.SuccessResponse{Success: true}, nil
	})
	Mutation(r, "echo.fail", Public, func(c *Call, _ struct{}) (struct{}, error) {
		return struct{}{}, fmt.Errorf("lookup: %w", services.ErrPlayerNotFound)
	})
	Query(r, "echo.admin", Admin, func(c *Call, _ struct{}) (string, error) {
		return "ok", nil
	})

	app := fiber.New()
	r.Mount(app.Group("/rpc"))
	return app, &calls
}

func readError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestQueryDecodesAndValidatesInput(t *testing.T) {
	app, calls := newTestApp(t, Guards{})

	input := url.QueryEscape(`{"month":5,"category":"U13","date":"2026-05-01"}`)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/rpc/echo.get?input="+input, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out echoInput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 5, out.Month)
	assert.Equal(t, models.CategoryU13, out.Category)
	assert.Equal(t, 1, *calls)
}

func TestValidationRejectsBeforeHandler(t *testing.T) {
	app, calls := newTestApp(t, Guards{})

	cases := map[string]string{
		"month out of range": `{"month":13,"category":"U13"}`,
		"unknown category":   `{"month":1,"category":"U12"}`,
		"bad date":           `{"month":1,"category":"A","date":"yesterday"}`,
		"wrong type":         `{"month":"five","category":"A"}`,
		"not json":           `{month`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/rpc/echo.get?input="+url.QueryEscape(input), nil), -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := readError(t, resp)
			assert.True(t, body.Error)
			assert.Equal(t, "BAD_REQUEST", body.Code)
			assert.NotEmpty(t, body.Fields)
		})
	}
	assert.Equal(t, 0, *calls)
}

func TestValidationReportsFieldNames(t *testing.T) {
	app, _ := newTestApp(t, Guards{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/rpc/echo.get?input="+url.QueryEscape(`{"month":13,"category":"U13"}`), nil), -1)
	require.NoError(t, err)
	body := readError(t, resp)
	assert.Contains(t, body.Fields, "month")
}

func TestMissingGuardFailsClosed(t *testing.T) {
	app, calls := newTestApp(t, Guards{})

	req := httptest.NewRequest(http.MethodPost, "/rpc/echo.set", strings.NewReader(`{"month":1,"category":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", readError(t, resp).Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/rpc/echo.admin", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, *calls)
}

func TestGuardsRunBeforeInputIsRead(t *testing.T) {
	identify := func(c *fiber.Ctx) error {
		if c.Get("X-Test-User") != "" {
			identity.Set(c, &identity.Principal{Kind: identity.KindTrainer, ID: 7})
		}
		return c.Next()
	}
	protected := func(c *fiber.Ctx) error {
		if _, ok := identity.FromCtx(c); !ok {
			return WriteError(c, fiber.NewError(fiber.StatusUnauthorized, "Please login"))
		}
		return c.Next()
	}
	app, calls := newTestApp(t, Guards{Identify: []fiber.Handler{identify}, Protected: protected})

	// Invalid input, but the caller is anonymous: authorization wins.
	req := httptest.NewRequest(http.MethodPost, "/rpc/echo.set", strings.NewReader(`{"month":13}`))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/rpc/echo.set", strings.NewReader(`{"month":2,"category":"U15"}`))
	req.Header.Set("X-Test-User", "1")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, *calls)
}

func TestHandlerErrorsAreMapped(t *testing.T) {
	app, _ := newTestApp(t, Guards{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/rpc/echo.fail", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := readError(t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "lookup: player not found", body.Message)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrInvalidInput, 400, "BAD_REQUEST"},
		{services.ErrInvalidCredentials, 401, "UNAUTHORIZED"},
		{services.ErrWrongPassword, 401, "UNAUTHORIZED"},
		{services.ErrTrainingNotFound, 404, "NOT_FOUND"},
		{services.ErrUsernameTaken, 409, "CONFLICT"},
		{fmt.Errorf("%w: x", services.ErrStorageTimeout), 504, "TIMEOUT"},
		{fmt.Errorf("%w: x", services.ErrStorageUnavailable), 503, "SERVICE_UNAVAILABLE"},
		{fiber.NewError(fiber.StatusForbidden, "nope"), 403, "FORBIDDEN"},
		{fmt.Errorf("pq: connection string leaked"), 500, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		status, body := FromError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, body.Code, tt.err.Error())
		assert.True(t, body.Error)
	}

	_, body := FromError(fmt.Errorf("pq: connection string leaked"))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestDuplicateProcedurePanics(t *testing.T) {
	r := NewRouter(Guards{})
	Query(r, "a.b", Public, func(*Call, struct{}) (int, error) { return 1, nil })
	assert.Panics(t, func() {
		Mutation(r, "a.b", Public, func(*Call, struct{}) (int, error) { return 1, nil })
	})
	assert.Panics(t, func() { r.Use("missing") })
}

type nameInput struct {
	Name  string  `json:"name" validate:"required,notblank,max=20"`
	Title *string `json:"title" validate:"omitempty,notblank"`
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	r := NewRouter(Guards{})
	Mutation(r, "names.create", Public, func(*Call, nameInput) (dto.SuccessResponse, error) {
		return dto.SuccessResponse{Success: true}, nil
	})
	app := fiber.New()
	r.Mount(app.Group("/rpc"))

	cases := map[string]int{
		`{"name":"Ján"}`:                   http.StatusOK,
		`{"name":"   "}`:                   http.StatusBadRequest,
		`{"name":"Ján","title":" \t "}`:    http.StatusBadRequest,
		`{"name":"Ján","title":"Kapitán"}`: http.StatusOK,
	}
	for body, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/rpc/names.create", strings.NewReader(body))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, body)
		if want == http.StatusBadRequest {
			assert.Equal(t, "BAD_REQUEST", readError(t, resp).Code, body)
		}
	}
}

func TestStorageTimeoutMapsToGatewayTimeout(t *testing.T) {
	// A one nanosecond budget expires before the query reaches the database.
	store := services.NewStorage(testutil.NewDB(t), time.Nanosecond)
	players := services.NewPlayerService(store)

	r := NewRouter(Guards{})
	Query(r, "players.list", Public, func(c *Call, _ struct{}) ([]models.Player, error) {
		return players.List(c.Ctx, nil)
	})
	app := fiber.New()
	r.Mount(app.Group("/rpc"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/rpc/players.list", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	body := readError(t, resp)
	assert.Equal(t, "TIMEOUT", body.Code)
	assert.Equal(t, "Storage did not respond in time", body.Message)
}
