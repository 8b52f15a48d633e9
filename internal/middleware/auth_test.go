package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"dealscout/internal/config"
	"dealscout/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{JWTSecret: "test-secret", JWTExpirationDur: time.Hour})
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func setupAuthRouter(roles ...models.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{AuthMiddleware()}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		s, _ := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"user_id": s.UserID, "role": s.Role})
	})
	r.GET("/test", chain...)
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testUser(role models.Role) *models.User {
	return &models.User{Base: models.Base{ID: "0190a1b2-0000-7000-8000-000000000001"}, Email: "a@test.com", Role: role}
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := GenerateToken(testUser(models.RoleClient))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: "u1",
		Role:   models.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{UserID: "u1", Role: models.RoleAdmin})
	forgedToken, _ := forged.SignedString([]byte("other-secret"))

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{UserID: "u1"})
	noRoleToken, _ := noRole.SignedString([]byte("test-secret"))

	tests := []struct {
		name          string
		header        string
		wantStatus    int
		wantErrorCode string
	}{
		{name: "valid_token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "wrong_scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "expired", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "wrong_secret", header: "Bearer " + forgedToken, wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "missing_role", header: "Bearer " + noRoleToken, wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(setupAuthRouter(), tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := parseBody(t, rec)
			if tt.wantErrorCode != "" {
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatal("expected error object in response")
				}
				if code, _ := errObj["code"].(string); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
				return
			}
			if body["role"] != "client" {
				t.Errorf("role = %v, want client", body["role"])
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       models.Role
		allowed    []models.Role
		wantStatus int
	}{
		{name: "admin_allowed", role: models.RoleAdmin, allowed: []models.Role{models.RoleAdmin, models.RoleVA}, wantStatus: http.StatusOK},
		{name: "va_allowed", role: models.RoleVA, allowed: []models.Role{models.RoleAdmin, models.RoleVA}, wantStatus: http.StatusOK},
		{name: "client_forbidden", role: models.RoleClient, allowed: []models.Role{models.RoleAdmin, models.RoleVA}, wantStatus: http.StatusForbidden},
		{name: "wholesaler_forbidden", role: models.RoleWholesaler, allowed: []models.Role{models.RoleAdmin}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(testUser(tt.role))
			if err != nil {
				t.Fatalf("failed to generate token: %v", err)
			}
			rec := doAuthRequest(setupAuthRouter(tt.allowed...), "Bearer "+token)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRequireRoles_WithoutSession(t *testing.T) {
	r := gin.New()
	r.GET("/test", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := doAuthRequest(r, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSession_HasRole(t *testing.T) {
	s := Session{Role: models.RoleWholesaler}
	if !s.HasRole(models.RoleAdmin, models.RoleWholesaler) {
		t.Error("expected wholesaler to match")
	}
	if s.HasRole() {
		t.Error("expected no match for empty role list")
	}
}
