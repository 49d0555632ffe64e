package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zh1gn/FoundItBot/internal/config"
	"github.com/zh1gn/FoundItBot/internal/db"
	"github.com/zh1gn/FoundItBot/internal/lifecycle"
	"github.com/zh1gn/FoundItBot/internal/models"
	"github.com/zh1gn/FoundItBot/internal/settings"
	"github.com/zh1gn/FoundItBot/internal/store"
)

const (
	testAdminID   = int64(900)
	testJWTSecret = "test-secret"
)

func adminAuthHeader(t *testing.T, adminID int64) map[string]string {
	t.Helper()
	token, errIssue := IssueAdminToken(config.JWTConfig{Secret: testJWTSecret, Expiry: time.Hour}, adminID)
	if errIssue != nil {
		t.Fatalf("issue token: %v", errIssue)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store, *lifecycle.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + filepath.Join(t.TempDir(), "foundit-test.db")
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	cfg := config.Config{
		BotUsername: "QR_FinderBot",
		LinkDomain:  "t.me",
		AdminID:     testAdminID,
		Plans: map[string]config.Plan{
			"month_1": {Label: "1 month", Price: 300, Days: 30},
		},
		JWT: config.JWTConfig{Secret: testJWTSecret, Expiry: time.Hour},
	}
	st := store.New(conn)
	engine := lifecycle.New(st, cfg, nil)

	router := gin.New()
	RegisterRoutes(router, conn, st, engine, cfg)
	return router, st, engine
}

func seedItem(t *testing.T, st *store.Store) string {
	t.Helper()
	ctx := context.Background()
	if _, errUser := st.CreateUser(ctx, 1, "alice", "Alice"); errUser != nil {
		t.Fatalf("create user: %v", errUser)
	}
	item, errItem := st.CreateItem(ctx, 1, nil)
	if errItem != nil {
		t.Fatalf("create item: %v", errItem)
	}
	return item.Code
}

func doRequest(router *gin.Engine, method, path string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for key, value := range header {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}
}

func TestFoundEndpoint(t *testing.T) {
	router, st, _ := newTestRouter(t)
	code := seedItem(t, st)

	rec := doRequest(router, http.MethodGet, "/found/"+code, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("found: %d %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Code       string `json:"code"`
		ReportLink string `json:"report_link"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &payload); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if payload.Code != code {
		t.Fatalf("wrong code in payload: %+v", payload)
	}
	if payload.ReportLink == "" {
		t.Fatalf("missing report link: %+v", payload)
	}

	rec = doRequest(router, http.MethodGet, "/found/QRFFFFFF", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown code: %d", rec.Code)
	}
}

func TestItemAndStatsAPI(t *testing.T) {
	router, st, _ := newTestRouter(t)
	code := seedItem(t, st)

	rec := doRequest(router, http.MethodGet, "/api/item/"+code, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("api item: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/api/stats", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("api stats: %d %s", rec.Code, rec.Body.String())
	}
	var stats struct {
		TotalUsers int64 `json:"total_users"`
		TotalItems int64 `json:"total_items"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &stats); errDecode != nil {
		t.Fatalf("decode stats: %v", errDecode)
	}
	if stats.TotalUsers != 1 || stats.TotalItems != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestShortLinkRedirect(t *testing.T) {
	router, st, _ := newTestRouter(t)
	code := seedItem(t, st)

	rec := doRequest(router, http.MethodGet, "/qr/"+code, nil, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("redirect: %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/found/"+code {
		t.Fatalf("redirect target: %q", loc)
	}
}

func TestQRImage(t *testing.T) {
	router, st, _ := newTestRouter(t)
	code := seedItem(t, st)

	rec := doRequest(router, http.MethodGet, "/qr/"+code+"/image.png", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("image: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type: %q", ct)
	}

	rec = doRequest(router, http.MethodGet, "/qr/QRFFFFFF/image.png", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown code image: %d", rec.Code)
	}
}

func TestPublicRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dsn := "file:" + filepath.Join(t.TempDir(), "foundit-test.db")
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	if errSet := conn.Model(&models.Setting{}).
		Where("key = ?", settings.PublicRateLimitKey).
		Update("value", []byte(`2`)).Error; errSet != nil {
		t.Fatalf("set limit: %v", errSet)
	}

	cfg := config.Config{BotUsername: "QR_FinderBot", LinkDomain: "t.me"}
	st := store.New(conn)
	router := gin.New()
	RegisterRoutes(router, conn, st, lifecycle.New(st, cfg, nil), cfg)

	// Five back-to-back requests cross at most one window boundary, so one
	// window always sees more than the limit of two.
	var throttled bool
	for i := 0; i < 5; i++ {
		rec := doRequest(router, http.MethodGet, "/api/stats", nil, nil)
		if rec.Code == http.StatusTooManyRequests {
			throttled = true
		}
	}
	if !throttled {
		t.Fatalf("third request in one window should be throttled")
	}

	// Health stays reachable regardless of the lookup limit.
	rec := doRequest(router, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz throttled: %d", rec.Code)
	}
}

func TestLimitSourceTracksSettingEdits(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "foundit-test.db")
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	ctx := context.Background()

	setLimit := func(raw string) {
		t.Helper()
		if errSet := conn.Model(&models.Setting{}).
			Where("key = ?", settings.PublicRateLimitKey).
			Update("value", []byte(raw)).Error; errSet != nil {
			t.Fatalf("set limit: %v", errSet)
		}
	}

	// A zero TTL re-reads on every call, so edits apply immediately.
	source := newLimitSource(settings.NewService(conn), 0)
	if got := source.limit(ctx); got != settings.DefaultPublicRateLimit {
		t.Fatalf("seeded limit: got %d", got)
	}
	setLimit(`3`)
	if got := source.limit(ctx); got != 3 {
		t.Fatalf("edited limit not picked up: got %d", got)
	}

	// A positive TTL serves the cached value until it expires.
	cached := newLimitSource(settings.NewService(conn), time.Hour)
	if got := cached.limit(ctx); got != 3 {
		t.Fatalf("first cached read: got %d", got)
	}
	setLimit(`7`)
	if got := cached.limit(ctx); got != 3 {
		t.Fatalf("cache ignored: got %d", got)
	}
	cached.expires = time.Now().Add(-time.Second)
	if got := cached.limit(ctx); got != 7 {
		t.Fatalf("expired cache not refreshed: got %d", got)
	}
}

func TestAdminEndpoints(t *testing.T) {
	router, st, _ := newTestRouter(t)
	ctx := context.Background()
	if _, errUser := st.CreateUser(ctx, 1, "alice", "Alice"); errUser != nil {
		t.Fatalf("create user: %v", errUser)
	}
	if errPay := st.AddPendingPayment(ctx, 1, "month_1"); errPay != nil {
		t.Fatalf("add payment: %v", errPay)
	}

	// No token.
	rec := doRequest(router, http.MethodGet, "/v0/admin/pending", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rec.Code)
	}

	// A token for a non-admin id authenticates but is not authorized.
	rec = doRequest(router, http.MethodGet, "/v0/admin/pending", nil, adminAuthHeader(t, 1))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin token: %d", rec.Code)
	}

	adminHeader := adminAuthHeader(t, testAdminID)
	rec = doRequest(router, http.MethodGet, "/v0/admin/pending", nil, adminHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("pending: %d %s", rec.Code, rec.Body.String())
	}
	var pending struct {
		Payments []struct {
			UserID int64  `json:"user_id"`
			Plan   string `json:"plan"`
		} `json:"payments"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &pending); errDecode != nil {
		t.Fatalf("decode pending: %v", errDecode)
	}
	if len(pending.Payments) != 1 || pending.Payments[0].Plan != "month_1" {
		t.Fatalf("unexpected pending list: %+v", pending)
	}

	body, _ := json.Marshal(map[string]any{"user_id": 1, "plan": "month_1"})
	rec = doRequest(router, http.MethodPost, "/v0/admin/activate", body, adminHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/v0/admin/pending", nil, adminHeader)
	var remaining struct {
		Payments []json.RawMessage `json:"payments"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &remaining); errDecode != nil {
		t.Fatalf("decode remaining: %v", errDecode)
	}
	if len(remaining.Payments) != 0 {
		t.Fatalf("activation must clear the worklist, got %s", rec.Body.String())
	}

	// Bad payloads.
	rec = doRequest(router, http.MethodPost, "/v0/admin/activate", []byte(`{}`), adminHeader)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty payload: %d", rec.Code)
	}
	body, _ = json.Marshal(map[string]any{"user_id": 1, "plan": "month_99"})
	rec = doRequest(router, http.MethodPost, "/v0/admin/activate", body, adminHeader)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown plan: %d", rec.Code)
	}
}

func TestAdminAuthRejectsUnsignedCallers(t *testing.T) {
	router, st, _ := newTestRouter(t)
	ctx := context.Background()
	if _, errUser := st.CreateUser(ctx, 1, "alice", "Alice"); errUser != nil {
		t.Fatalf("create user: %v", errUser)
	}

	body, _ := json.Marshal(map[string]any{"user_id": 1, "plan": "month_1"})

	// Claiming the admin id in a plain header grants nothing.
	rec := doRequest(router, http.MethodPost, "/v0/admin/activate", body, map[string]string{
		"X-Admin-Id": "900",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("id header without token: %d %s", rec.Code, rec.Body.String())
	}

	// Garbage and wrongly formatted credentials are rejected before parsing.
	for name, header := range map[string]map[string]string{
		"not bearer":    {"Authorization": "Token abc"},
		"empty token":   {"Authorization": "Bearer "},
		"garbage token": {"Authorization": "Bearer not-a-jwt"},
	} {
		rec = doRequest(router, http.MethodPost, "/v0/admin/activate", body, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: %d", name, rec.Code)
		}
	}

	// A token signed with a different secret fails verification.
	forged, errIssue := IssueAdminToken(config.JWTConfig{Secret: "someone-else", Expiry: time.Hour}, testAdminID)
	if errIssue != nil {
		t.Fatalf("issue forged token: %v", errIssue)
	}
	rec = doRequest(router, http.MethodPost, "/v0/admin/activate", body, map[string]string{
		"Authorization": "Bearer " + forged,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("mis-signed token: %d", rec.Code)
	}

	// None of the rejected calls may have started a term.
	sub, errSub := st.ActiveSubscription(ctx, 1)
	if errSub != nil {
		t.Fatalf("active subscription: %v", errSub)
	}
	if sub != nil {
		t.Fatalf("rejected caller created a subscription: %+v", sub)
	}
}

func TestAdminAuthRejectsExpiredToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	expired, errIssue := IssueAdminToken(config.JWTConfig{Secret: testJWTSecret, Expiry: -time.Minute}, testAdminID)
	if errIssue != nil {
		t.Fatalf("issue expired token: %v", errIssue)
	}
	rec := doRequest(router, http.MethodGet, "/v0/admin/pending", nil, map[string]string{
		"Authorization": "Bearer " + expired,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: %d", rec.Code)
	}
}
