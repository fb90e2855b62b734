package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthController_Check(t *testing.T) {
	tests := []struct {
		name       string
		checker    func(context.Context) error
		wantStatus int
		wantDB     string
	}{
		{"connected", func(context.Context) error { return nil }, http.StatusOK, "connected"},
		{"ping fails", func(context.Context) error { return errors.New("refused") }, http.StatusServiceUnavailable, "disconnected"},
		{"no checker", nil, http.StatusServiceUnavailable, "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.checker).Check)

			w := doJSON(t, r, http.MethodGet, "/health", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			decodeBody(t, w, &resp)
			if resp.Database != tt.wantDB {
				t.Errorf("database = %q, want %q", resp.Database, tt.wantDB)
			}
		})
	}
}
