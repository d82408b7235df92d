package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("APP_SECRET", "test-secret")

	token, err := GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims["user_id"].(float64) != 42 {
		t.Errorf("Expected user_id 42, got %v", claims["user_id"])
	}
	if claims["username"] != "alice" {
		t.Errorf("Expected username 'alice', got %v", claims["username"])
	}
}

func TestValidateToken_Invalid(t *testing.T) {
	t.Setenv("APP_SECRET", "test-secret")

	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}

	t.Setenv("APP_SECRET", "other-secret")
	token, _ := GenerateToken(1, "alice")

	t.Setenv("APP_SECRET", "test-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("Expected error for token signed with a different secret")
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	t.Setenv("APP_SECRET", "test-secret")

	token, err := GenerateToken(7, "bob")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	identity, err := TokenVerifier{}.Verify(token)
	if err != nil {
		t.Fatalf("Failed to verify token: %v", err)
	}

	if identity.UserID != 7 {
		t.Errorf("Expected user id 7, got %d", identity.UserID)
	}
	if identity.Username != "bob" {
		t.Errorf("Expected username 'bob', got %s", identity.Username)
	}

	if _, err := (TokenVerifier{}).Verify("garbage"); err == nil {
		t.Error("Expected error for invalid token")
	}
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("APP_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewAuthMiddleware().RequireAuth())
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"user_id": c.MustGet("user_id")})
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			header:         "Token abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			header:         "Bearer garbage",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(42, "alice")
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})
}
