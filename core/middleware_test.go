package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := testCodec()
	resolver := NewIdentityResolver(codec)

	r := gin.New()
	r.GET("/admin/ping", AdminOnly(resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	adminToken, err := codec.Issue("root", []Role{RoleAdmin})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	userToken, err := codec.Issue("alice", []Role{RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"admin passes", adminToken, http.StatusOK, ""},
		{"non-admin rejected", userToken, http.StatusForbidden, "FORBIDDEN"},
		{"missing header", "", http.StatusBadRequest, "MALFORMED_TOKEN"},
		{"invalid token", "Bearer garbage", http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tc.wantStatus, w.Body.String())
			}
			if tc.wantCode != "" && !strings.Contains(w.Body.String(), tc.wantCode) {
				t.Fatalf("body = %s, want code %s", w.Body.String(), tc.wantCode)
			}
		})
	}
}
