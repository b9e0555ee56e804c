package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hfrat/hfrat-backend/internal/config"
	"github.com/hfrat/hfrat-backend/internal/database"
	"github.com/hfrat/hfrat-backend/internal/handlers"
	"github.com/hfrat/hfrat-backend/internal/models"
	"github.com/hfrat/hfrat-backend/internal/routes"
	"github.com/hfrat/hfrat-backend/internal/services"
	"github.com/hfrat/hfrat-backend/internal/token"
)

const testSecret = "test-secret-key"

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	issuer *token.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Facility{}, &models.User{}, &models.ResourceReport{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		Env:             "test",
		JWTSecret:       testSecret,
		JWTAccessExpiry: time.Hour,
		CORSOrigins:     "*",
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry)
	revocations := token.NewMemoryStore()

	authHandler := handlers.NewAuthHandler(services.NewAuthService(db, issuer), revocations)
	adminHandler := handlers.NewAdminHandler(services.NewAdminService(db))
	reporterHandler := handlers.NewReporterHandler(services.NewReportService(db))
	monitorHandler := handlers.NewMonitorHandler(services.NewDashboardService(db))
	healthHandler := handlers.NewHealthHandler(cfg.Env)

	app := fiber.New()
	routes.Setup(app, cfg, revocations, authHandler, adminHandler, reporterHandler, monitorHandler, healthHandler)

	return &testEnv{app: app, db: db, issuer: issuer}
}

func (e *testEnv) createFacility(t *testing.T, name string) *models.Facility {
	t.Helper()
	facility := models.Facility{Name: name}
	if err := e.db.Create(&facility).Error; err != nil {
		t.Fatalf("create facility: %v", err)
	}
	return &facility
}

func (e *testEnv) mintToken(t *testing.T, ident token.Identity) string {
	t.Helper()
	raw, err := e.issuer.Issue(ident)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return raw
}

// mintLegacyToken signs a token whose subject is a bare scalar instead of
// the JSON identity object, as older tokens carried.
func (e *testEnv) mintLegacyToken(t *testing.T, subject string) string {
	t.Helper()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        "legacy-jti",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.issuer.Secret)
	if err != nil {
		t.Fatalf("sign legacy token: %v", err)
	}
	return raw
}

func (e *testEnv) request(t *testing.T, method, path string, body any, bearer string) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	env := newTestEnv(t)
	facility := env.createFacility(t, "City General Hospital")

	resp, body := env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":       "a@b.com",
		"password":    "longenough1",
		"role":        "reporter",
		"facility_id": facility.ID,
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body = %v", resp.StatusCode, body)
	}
	if body["role"] != "reporter" {
		t.Errorf("register role = %v, want reporter", body["role"])
	}
	accessToken, _ := body["access_token"].(string)
	if accessToken == "" {
		t.Fatal("register returned no access token")
	}

	// The fresh token authorizes reporter routes; no report exists yet.
	resp, body = env.request(t, http.MethodGet, "/api/reporter/reports/me", nil, accessToken)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("reports/me status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "a@b.com",
		"password": "longenough1",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body = %v", resp.StatusCode, body)
	}

	// Login with wrong password and with an unknown email read identically.
	_, wrongPass := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "a@b.com", "password": "wrong-password",
	}, "")
	_, unknown := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "ghost@b.com", "password": "longenough1",
	}, "")
	if wrongPass["error"] != unknown["error"] {
		t.Errorf("credential failures differ: %v vs %v", wrongPass["error"], unknown["error"])
	}

	resp, _ = env.request(t, http.MethodPost, "/api/auth/logout", nil, accessToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}

	// The revoked token no longer authenticates.
	resp, _ = env.request(t, http.MethodGet, "/api/reporter/reports/me", nil, accessToken)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", resp.StatusCode)
	}

	// Logging out again with the same token is rejected too.
	resp, _ = env.request(t, http.MethodPost, "/api/auth/logout", nil, accessToken)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("second logout status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	facility := env.createFacility(t, "City General Hospital")

	// All applicable messages come back together.
	resp, body := env.request(t, http.MethodPost, "/api/auth/register", map[string]any{}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if errs, _ := body["errors"].([]any); len(errs) != 2 {
		t.Errorf("errors = %v, want email and password messages", body["errors"])
	}

	// Reporter without a facility.
	resp, _ = env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "r@b.com", "password": "longenough1", "role": "reporter",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("reporter without facility status = %d, want 400", resp.StatusCode)
	}

	// Non-reporter with a facility.
	resp, _ = env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "m@b.com", "password": "longenough1", "role": "monitor", "facility_id": facility.ID,
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("monitor with facility status = %d, want 400", resp.StatusCode)
	}

	// Unknown role.
	resp, _ = env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "x@b.com", "password": "longenough1", "role": "superuser",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid role status = %d, want 400", resp.StatusCode)
	}

	// When both role and facility_id are malformed, facility_id is
	// reported first.
	resp, body = env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "y@b.com", "password": "longenough1", "role": "superuser", "facility_id": "not-a-number",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed role+facility status = %d, want 400", resp.StatusCode)
	}
	if body["error"] != "facility_id must be a positive integer." {
		t.Errorf("malformed role+facility error = %v, want the facility_id message", body["error"])
	}
}

func TestRoleGuards(t *testing.T) {
	env := newTestEnv(t)

	adminToken := env.mintToken(t, token.Identity{ID: 1, Role: models.RoleAdmin})
	monitorToken := env.mintToken(t, token.Identity{ID: 2, Role: models.RoleMonitor})

	// No token: 401.
	resp, _ := env.request(t, http.MethodGet, "/api/admin/users", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", resp.StatusCode)
	}

	// Wrong role: 403 with a generic message.
	resp, body := env.request(t, http.MethodGet, "/api/admin/users", nil, monitorToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("monitor on admin route status = %d, want 403", resp.StatusCode)
	}
	if body["error"] != "Forbidden" {
		t.Errorf("forbidden message = %v, must not leak allowed roles", body["error"])
	}

	// Right role: 200.
	resp, _ = env.request(t, http.MethodGet, "/api/admin/users", nil, adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin on admin route status = %d, want 200", resp.StatusCode)
	}

	// Admin has oversight access to monitor routes.
	resp, _ = env.request(t, http.MethodGet, "/api/monitor/dashboard", nil, adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin on monitor route status = %d, want 200", resp.StatusCode)
	}

	// A token with a legacy scalar subject has no role and is forbidden.
	legacy := env.mintLegacyToken(t, "42")
	resp, _ = env.request(t, http.MethodGet, "/api/monitor/dashboard", nil, legacy)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("legacy subject status = %d, want 403", resp.StatusCode)
	}
}

func TestSubmitReportOwnership(t *testing.T) {
	env := newTestEnv(t)
	own := env.createFacility(t, "Own Hospital")
	other := env.createFacility(t, "Other Hospital")

	reporterToken := env.mintToken(t, token.Identity{ID: 2, Role: models.RoleReporter, FacilityID: &own.ID})

	payload := map[string]any{
		"facility_id":           other.ID,
		"icu_beds_available":    1,
		"ventilators_available": 1,
		"staff_on_duty":         1,
	}
	resp, _ := env.request(t, http.MethodPost, "/api/reporter/reports", payload, reporterToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("cross-facility submit status = %d, want 403", resp.StatusCode)
	}

	payload["facility_id"] = own.ID
	resp, body := env.request(t, http.MethodPost, "/api/reporter/reports", payload, reporterToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("own-facility submit status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestDashboardCriticalFlag(t *testing.T) {
	env := newTestEnv(t)
	facility := env.createFacility(t, "Beta Hospital")

	adminToken := env.mintToken(t, token.Identity{ID: 1, Role: models.RoleAdmin})
	resp, body := env.request(t, http.MethodPost, "/api/reporter/reports", map[string]any{
		"facility_id":           facility.ID,
		"icu_beds_available":    0,
		"ventilators_available": 2,
		"staff_on_duty":         10,
	}, adminToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %v", resp.StatusCode, body)
	}

	monitorToken := env.mintToken(t, token.Identity{ID: 2, Role: models.RoleMonitor})
	resp, body = env.request(t, http.MethodGet, "/api/monitor/dashboard", nil, monitorToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d", resp.StatusCode)
	}

	facilities, _ := body["facilities"].([]any)
	if len(facilities) != 1 {
		t.Fatalf("dashboard facilities = %v", body["facilities"])
	}
	entry, _ := facilities[0].(map[string]any)
	if entry["critical"] != true {
		t.Errorf("entry critical = %v, want true when icu_beds_available is 0", entry["critical"])
	}
}

func TestDashboardHistoryParams(t *testing.T) {
	env := newTestEnv(t)
	monitorToken := env.mintToken(t, token.Identity{ID: 2, Role: models.RoleMonitor})

	resp, _ := env.request(t, http.MethodGet, "/api/monitor/dashboard/history", nil, monitorToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing facility_id status = %d, want 400", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodGet, "/api/monitor/dashboard/history?facility_id=1&days=0", nil, monitorToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-positive days status = %d, want 400", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodGet, "/api/monitor/dashboard/history?facility_id=9999", nil, monitorToken)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown facility status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthAndIndex(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodGet, "/health", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" || body["database"] != "connected" {
		t.Errorf("health body = %v", body)
	}

	resp, body = env.request(t, http.MethodGet, "/", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status = %d", resp.StatusCode)
	}
	if body["name"] != "HFRAT API" {
		t.Errorf("index body = %v", body)
	}
}
