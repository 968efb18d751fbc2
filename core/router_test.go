package core

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func runRespond(respond func(*gin.Context, error), err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respond(c, err)
	return w
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"malformed credential", ErrMalformedCredential, http.StatusBadRequest, "MALFORMED_TOKEN"},
		{"invalid credential", ErrInvalidCredential, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"validation", fmt.Errorf("%w: title and content are required", ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"infrastructure failure", errors.New("connection refused: db down"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, respond := range []struct {
		name string
		fn   func(*gin.Context, error)
	}{
		{"post", respondPostError},
		{"comment", respondCommentError},
	} {
		for _, tc := range cases {
			t.Run(respond.name+"/"+tc.name, func(t *testing.T) {
				w := runRespond(respond.fn, tc.err)
				if w.Code != tc.wantStatus {
					t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
				}
				if !strings.Contains(w.Body.String(), tc.wantCode) {
					t.Fatalf("body = %s, want code %s", w.Body.String(), tc.wantCode)
				}
			})
		}
	}
}

// Repository and driver failures must never leak their message to the client.
func TestUnknownErrorMessageNotEchoed(t *testing.T) {
	w := runRespond(respondPostError, errors.New("connection refused: db down"))
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("internal error detail leaked to client: %s", w.Body.String())
	}
}
