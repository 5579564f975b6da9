package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/services"
	"github.com/cfkpezinok/club-backend/internal/session"
	"github.com/cfkpezinok/club-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := testutil.Config()
	db := testutil.NewDB(t)
	svc := NewServices(services.NewStorage(db, cfg.StorageTimeout), cfg)

	_, err := svc.Trainers.InitializeTrainers(context.Background(), services.DefaultTrainers, cfg.TrainerInitialPassword)
	require.NoError(t, err)

	sessions := session.NewManager(cfg.TrainerSessionSecret, cfg.TrainerSessionTTL, "")
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(requestid.New())
	Setup(app, cfg, db, svc, sessions)

	return &harness{t: t, app: app, db: db}
}

type option func(*http.Request)

func withCookie(c *http.Cookie) option {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value}) }
}

func withHeader(k, v string) option {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func (h *harness) do(req *http.Request, opts ...option) (*http.Response, []byte) {
	h.t.Helper()
	for _, o := range opts {
		o(req)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, body
}

func (h *harness) mutation(name string, input any, opts ...option) (*http.Response, []byte) {
	h.t.Helper()
	raw, err := json.Marshal(input)
	require.NoError(h.t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/rpc/"+name, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return h.do(req, opts...)
}

func (h *harness) query(name string, input any, opts ...option) (*http.Response, []byte) {
	h.t.Helper()
	target := "/api/rpc/" + name
	if input != nil {
		raw, err := json.Marshal(input)
		require.NoError(h.t, err)
		target += "?input=" + url.QueryEscape(string(raw))
	}
	return h.do(httptest.NewRequest(http.MethodGet, target, nil), opts...)
}

func (h *harness) login(username, password string) *http.Cookie {
	h.t.Helper()
	resp, body := h.mutation("trainer.login", map[string]string{"username": username, "password": password})
	require.Equal(h.t, http.StatusOK, resp.StatusCode, string(body))
	c := findCookie(resp, session.CookieName)
	require.NotNil(h.t, c)
	return c
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestProtectedProcedureRequiresSession(t *testing.T) {
	h := newHarness(t)

	resp, body := h.query("players.list", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, body)
	assert.True(t, e.Error)
	assert.Equal(t, "UNAUTHORIZED", e.Code)
	assert.Equal(t, "Please login", e.Message)
}

func TestTrainerLoginSetsSessionCookie(t *testing.T) {
	h := newHarness(t)

	resp, body := h.mutation("trainer.login", map[string]string{"username": "Siandorj", "password": "Cajla123"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	out := decode[dto.TrainerLoginResponse](t, body)
	assert.True(t, out.Success)
	assert.Equal(t, "Siandorj", out.Trainer.Username)
	assert.Equal(t, "Šiandor Jozef", out.Trainer.FullName)

	c := findCookie(resp, session.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, 604800, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.NotContains(t, string(body), "password")
}

func TestTrainerLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newHarness(t)

	wrongPass, wrongBody := h.mutation("trainer.login", map[string]string{"username": "Siandorj", "password": "nope"})
	unknown, unknownBody := h.mutation("trainer.login", map[string]string{"username": "ghost", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.JSONEq(t, string(wrongBody), string(unknownBody))
	assert.Nil(t, findCookie(wrongPass, session.CookieName))
}

func TestPlayerLifecycleWithSession(t *testing.T) {
	h := newHarness(t)
	cookie := h.login("Cajkovicm", "Cajla123")

	for _, p := range []map[string]any{
		{"name": "Novák Adam", "category": "U13"},
		{"name": "Bielik Tomáš", "category": "U13", "dateOfBirth": "2014-02-11"},
		{"name": "Horváth Ján", "category": "A", "position": "hooker"},
	} {
		resp, body := h.mutation("players.create", p, withCookie(cookie))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		out := decode[dto.SuccessResponse](t, body)
		assert.True(t, out.Success)
		assert.NotZero(t, out.ID)
	}

	resp, body := h.query("players.list", map[string]string{"category": "U13"}, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	players := decode[[]models.Player](t, body)
	require.Len(t, players, 2)
	assert.Equal(t, "Bielik Tomáš", players[0].Name)
	assert.Equal(t, "Novák Adam", players[1].Name)

	resp, body = h.mutation("players.create", map[string]string{"name": "X", "category": "U12"}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, body).Fields, "category")

	resp, body = h.mutation("players.create", map[string]string{"name": "   ", "category": "U13"}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, body).Fields, "name")

	resp, _ = h.query("players.getById", map[string]uint{"id": 9999}, withCookie(cookie))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetPaymentRejectsInvalidMonth(t *testing.T) {
	h := newHarness(t)
	cookie := h.login("Hupkas", "Cajla123")

	_, body := h.mutation("players.create", map[string]string{"name": "Kováč Peter", "category": "U15"}, withCookie(cookie))
	playerID := decode[dto.SuccessResponse](t, body).ID

	resp, body := h.mutation("membershipPayments.setPayment", map[string]any{
		"playerId": playerID, "year": 2026, "month": 13, "paid": true,
	}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, body)
	assert.Equal(t, "BAD_REQUEST", e.Code)
	assert.Contains(t, e.Fields, "month")

	var count int64
	require.NoError(t, h.db.Model(&models.MembershipPayment{}).Count(&count).Error)
	assert.Zero(t, count)

	resp, body = h.mutation("membershipPayments.setPayment", map[string]any{
		"playerId": playerID, "year": 2026, "month": 3, "paid": true, "amount": 25,
	}, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, h.db.Model(&models.MembershipPayment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAttendanceFlow(t *testing.T) {
	h := newHarness(t)
	cookie := h.login("Jedinakp", "Cajla123")

	_, body := h.mutation("players.create", map[string]string{"name": "Mráz Filip", "category": "U10-U11"}, withCookie(cookie))
	playerID := decode[dto.SuccessResponse](t, body).ID

	var trainings []uint
	for _, date := range []string{"2026-04-01", "2026-04-08", "2026-04-15"} {
		resp, body := h.mutation("trainings.create", map[string]string{"date": date, "category": "U10-U11"}, withCookie(cookie))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		trainings = append(trainings, decode[dto.SuccessResponse](t, body).ID)
	}

	for i, id := range trainings {
		resp, body := h.mutation("attendance.mark", map[string]any{
			"trainingId": id, "playerId": playerID, "present": i != 1,
		}, withCookie(cookie))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}
	// Marking again replaces the earlier mark.
	resp, _ := h.mutation("attendance.mark", map[string]any{
		"trainingId": trainings[2], "playerId": playerID, "present": false,
	}, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = h.query("attendance.getStats", map[string]any{"playerId": playerID}, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	stats := decode[models.AttendanceStats](t, body)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 1, stats.Present)
	assert.Equal(t, 33, stats.Percentage)

	resp, body = h.query("attendance.getStats", map[string]any{
		"playerId": playerID, "startDate": "2026-04-01", "endDate": "2026-04-08",
	}, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	stats = decode[models.AttendanceStats](t, body)
	assert.EqualValues(t, 2, stats.Total)
	assert.Equal(t, 50, stats.Percentage)

	resp, _ = h.mutation("attendance.mark", map[string]any{
		"trainingId": trainings[0], "playerId": playerID,
	}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutExpiresCookie(t *testing.T) {
	h := newHarness(t)
	cookie := h.login("Siandorj", "Cajla123")

	resp, _ := h.mutation("trainer.logout", nil, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := findCookie(resp, session.CookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, int64(0), cleared.Expires.Unix())
}

func TestTamperedSessionIsRejected(t *testing.T) {
	h := newHarness(t)
	cookie := h.login("Siandorj", "Cajla123")

	forged := *cookie
	forged.Value = cookie.Value[:len(cookie.Value)-4] + "AAAA"
	resp, _ := h.query("players.list", nil, withCookie(&forged))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.query("players.list", nil, withCookie(cookie))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTrainerMe(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.query("trainer.me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookie := h.login("Hupkas", "Cajla123")
	resp, body := h.query("trainer.me", nil, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	me := decode[dto.TrainerResponse](t, body)
	assert.Equal(t, "Hupkas", me.Username)
	assert.Equal(t, "Hupka Stanislav", me.FullName)
}

func TestPublicNewsAndGallery(t *testing.T) {
	h := newHarness(t)
	cookie := h.login("Siandorj", "Cajla123")

	_, body := h.mutation("news.create", map[string]any{"title": "Draft", "content": "tbd"}, withCookie(cookie))
	draftID := decode[dto.SuccessResponse](t, body).ID
	_, _ = h.mutation("news.create", map[string]any{"title": "Season opener", "content": "Saturday 10:00", "published": true}, withCookie(cookie))

	resp, body := h.query("news.list", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	news := decode[[]models.News](t, body)
	require.Len(t, news, 1)
	assert.Equal(t, "Season opener", news[0].Title)

	resp, _ = h.query("news.getById", map[string]uint{"id": draftID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = h.query("news.getById", map[string]uint{"id": draftID}, withCookie(cookie))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = h.mutation("gallery.create", map[string]string{
		"imageUrl": "https://cdn.example.com/a.jpg", "category": "seniors",
	}, withCookie(cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, body).Fields, "category")

	resp, body = h.mutation("gallery.create", map[string]string{
		"imageUrl": "https://cdn.example.com/a.jpg", "category": "general",
	}, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = h.query("gallery.list", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode[[]models.Gallery](t, body), 1)
}

func TestAdminProcedures(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.query("trainer.list", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookie := h.login("Siandorj", "Cajla123")
	resp, _ = h.query("trainer.list", nil, withCookie(cookie))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := h.query("trainer.list", nil, withHeader("X-Admin-Token", "test-admin-token"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Len(t, decode[[]dto.TrainerResponse](t, body), len(services.DefaultTrainers))
}

func TestBearerUserCanUseProtectedProcedures(t *testing.T) {
	h := newHarness(t)

	resp, body := h.mutation("auth.register", map[string]string{
		"email": "parent@club.test", "password": "long-enough", "name": "Parent",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	auth := decode[dto.AuthResponse](t, body)
	require.NotEmpty(t, auth.AccessToken)

	bearer := withHeader("Authorization", "Bearer "+auth.AccessToken)
	resp, body = h.query("players.list", nil, bearer)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = h.query("auth.me", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "parent@club.test", decode[dto.UserResponse](t, body).Email)

	resp, _ = h.query("trainer.me", nil, bearer)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.query("players.list", nil, withHeader("Authorization", "Bearer not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownProcedureAndHealth(t *testing.T) {
	h := newHarness(t)

	resp, body := h.query("players.teleport", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)

	resp, body = h.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, body).Status)
}
